package shoppinglist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler exposes the shopping list over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a shopping list handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// EditResponse reports the edit cursor alongside the list.
type EditResponse struct {
	Ingredients []Ingredient `json:"ingredients"`
	EditIndex   int          `json:"editIndex"`
}

// RegisterRoutes mounts the shopping list endpoints on the router group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.POST("", h.Add)
	r.PUT("/:index", h.Update)
	r.DELETE("/:index", h.Delete)
	r.POST("/:index/edit", h.StartEdit)
	r.POST("/edit/stop", h.StopEdit)
}

// List handles GET /shopping-list.
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, EditResponse{
		Ingredients: h.service.All(),
		EditIndex:   h.service.EditIndex(),
	})
}

// Add handles POST /shopping-list. The body may be a single ingredient or
// an array of them.
func (h *Handler) Add(c *gin.Context) {
	var batch []Ingredient
	if err := c.ShouldBindBodyWithJSON(&batch); err == nil {
		h.service.AddMany(batch)
		c.JSON(http.StatusCreated, gin.H{"ingredients": h.service.All()})
		return
	}

	var ing Ingredient
	if err := c.ShouldBindBodyWithJSON(&ing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.Add(ing)
	c.JSON(http.StatusCreated, gin.H{"ingredients": h.service.All()})
}

// Update handles PUT /shopping-list/:index.
func (h *Handler) Update(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var ing Ingredient
	if err := c.ShouldBindJSON(&ing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Update(index, ing); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": h.service.All()})
}

// Delete handles DELETE /shopping-list/:index.
func (h *Handler) Delete(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	if err := h.service.Delete(index); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": h.service.All()})
}

// StartEdit handles POST /shopping-list/:index/edit.
func (h *Handler) StartEdit(c *gin.Context) {
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	if err := h.service.StartEdit(index); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"editIndex": index})
}

// StopEdit handles POST /shopping-list/edit/stop.
func (h *Handler) StopEdit(c *gin.Context) {
	h.service.StopEdit()
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
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
