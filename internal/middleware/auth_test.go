package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipebook/internal/auth"
	"recipebook/internal/identity"
	"recipebook/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	expiresIn time.Duration
}

func (s *stubIdentity) SignIn(ctx context.Context, email, password string) (*identity.Credentials, error) {
	return &identity.Credentials{
		IDToken:   "T",
		Email:     email,
		UserID:    "test-user-id",
		ExpiresIn: s.expiresIn,
	}, nil
}

func (s *stubIdentity) SignUp(ctx context.Context, email, password string) (*identity.Credentials, error) {
	return nil, errors.New("unexpected SignUp call")
}

type stubStore struct{}

func (stubStore) Save(ctx context.Context, s session.Session) error   { return nil }
func (stubStore) Load(ctx context.Context) (*session.Session, error) { return nil, nil }
func (stubStore) Clear(ctx context.Context) error                    { return nil }

func startAuthenticated(t *testing.T, opts ...auth.Option) *auth.Orchestrator {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := auth.NewOrchestrator(&stubIdentity{expiresIn: time.Hour}, stubStore{}, logger, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go orch.Run(ctx)

	out := orch.Login(context.Background(), "test@example.com", "secret1")
	require.Equal(t, auth.OutcomeSuccess, out.Kind)

	return orch
}

func guardedRouter(orch *auth.Orchestrator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SessionGuard(orch))
	r.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		email, _ := c.Get("email")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email})
	})
	return r
}

func TestSessionGuard_LiveSession(t *testing.T) {
	orch := startAuthenticated(t)
	r := guardedRouter(orch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"test-user-id"`)
	assert.Contains(t, w.Body.String(), `"email":"test@example.com"`)
}

func TestSessionGuard_NoSession(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := auth.NewOrchestrator(&stubIdentity{}, stubStore{}, logger)

	r := guardedRouter(orch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not logged in")
}

func TestSessionGuard_ExpiredSession(t *testing.T) {
	// Shift the orchestrator clock into the past so the produced session is
	// already expired by wall-clock time while its timer has not fired.
	past := time.Now().Add(-2 * time.Hour)
	orch := startAuthenticated(t, auth.WithClock(func() time.Time { return past }))

	r := guardedRouter(orch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired")
}

func TestRequestID_SetsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	assert.Len(t, strings.Split(id, "-"), 5, "request IDs are UUIDs")
}

func TestRequestLogging_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
