package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler exposes the auth intents over HTTP.
type Handler struct {
	orch *Orchestrator
}

// NewHandler creates an auth handler around the orchestrator.
func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// CredentialsRequest is the request payload for login and signup.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SessionResponse is the response after successful authentication.
type SessionResponse struct {
	Email          string    `json:"email"`
	UserID         string    `json:"userId"`
	Token          string    `json:"token"`
	ExpirationDate time.Time `json:"expirationDate"`
	Redirect       string    `json:"redirect,omitempty"`
}

// StateResponse reports the current lifecycle state.
type StateResponse struct {
	State   string           `json:"state"`
	Session *SessionResponse `json:"session,omitempty"`
}

// RegisterRoutes mounts the auth endpoints on the router group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.POST("/signup", h.SignUp)
	r.POST("/auto-login", h.AutoLogin)
	r.POST("/logout", h.Logout)
	r.GET("/session", h.Session)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.orch.Login(c.Request.Context(), req.Email, req.Password))
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.orch.SignUp(c.Request.Context(), req.Email, req.Password))
}

// AutoLogin handles POST /auth/auto-login. An empty or invalid session slot
// is a 204, not an error.
func (h *Handler) AutoLogin(c *gin.Context) {
	out := h.orch.AutoLogin(c.Request.Context())
	if out.Kind != OutcomeSuccess {
		c.Status(http.StatusNoContent)
		return
	}

	h.respond(c, out)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	out := h.orch.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"redirect": out.Redirect})
}

// Session handles GET /auth/session.
func (h *Handler) Session(c *gin.Context) {
	resp := StateResponse{State: h.orch.State().String()}

	if sess := h.orch.CurrentSession(); sess != nil {
		resp.Session = &SessionResponse{
			Email:          sess.Email,
			UserID:         sess.UserID,
			Token:          sess.Token,
			ExpirationDate: sess.ExpirationDate,
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) respond(c *gin.Context, out Outcome) {
	switch out.Kind {
	case OutcomeSuccess:
		c.JSON(http.StatusOK, SessionResponse{
			Email:          out.Session.Email,
			UserID:         out.Session.UserID,
			Token:          out.Session.Token,
			ExpirationDate: out.Session.ExpirationDate,
			Redirect:       out.Redirect,
		})
	case OutcomeFailure:
		c.JSON(http.StatusUnauthorized, gin.H{"error": out.Message})
	default:
		c.Status(http.StatusNoContent)
	}
}
