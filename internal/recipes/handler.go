package recipes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler exposes the recipe book over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a recipes handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the recipe endpoints on the router group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.POST("", h.Create)
	r.GET("/:index", h.Get)
	r.PUT("/:index", h.Update)
	r.DELETE("/:index", h.Delete)
	r.POST("/:index/to-shopping-list", h.ToShoppingList)
	r.POST("/fetch", h.Fetch)
	r.PUT("/sync", h.Sync)
}

// List handles GET /recipes.
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": h.service.All()})
}

// Get handles GET /recipes/:index.
func (h *Handler) Get(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	rec, err := h.service.Get(index)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Create handles POST /recipes.
func (h *Handler) Create(c *gin.Context) {
	var rec Recipe
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.Add(rec)
	c.JSON(http.StatusCreated, gin.H{"recipes": h.service.All()})
}

// Update handles PUT /recipes/:index.
func (h *Handler) Update(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var rec Recipe
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Update(index, rec); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /recipes/:index.
func (h *Handler) Delete(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	if err := h.service.Delete(index); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": h.service.All()})
}

// ToShoppingList handles POST /recipes/:index/to-shopping-list.
func (h *Handler) ToShoppingList(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	if err := h.service.AddToShoppingList(index); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Fetch handles POST /recipes/fetch: reload the list from the database.
func (h *Handler) Fetch(c *gin.Context) {
	recipes, err := h.service.FetchAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// Sync handles PUT /recipes/sync: persist the in-memory list.
func (h *Handler) Sync(c *gin.Context) {
	if err := h.service.StoreAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return 0, false
	}
	return index, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoRepository):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
