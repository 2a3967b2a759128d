// Package server assembles the HTTP surface: routes, CORS, middleware,
// and the health endpoint.
package server

import (
	"net/http"
	"time"

	"recipebook/internal/auth"
	"recipebook/internal/config"
	"recipebook/internal/database"
	"recipebook/internal/middleware"
	"recipebook/internal/recipes"
	"recipebook/internal/shoppinglist"
	"recipebook/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server holds the handlers and infrastructure the routes depend on.
type Server struct {
	orch     *auth.Orchestrator
	authH    *auth.Handler
	recipesH *recipes.Handler
	listH    *shoppinglist.Handler
	imagesH  *storage.Handler

	db      database.Service // nil when no database is configured
	storage storage.Service  // nil when image storage is unconfigured
}

// New creates a server around the given components. db and store may be nil.
func New(
	orch *auth.Orchestrator,
	recipesService *recipes.Service,
	listService *shoppinglist.Service,
	store storage.Service,
	db database.Service,
) *Server {
	return &Server{
		orch:     orch,
		authH:    auth.NewHandler(orch),
		recipesH: recipes.NewHandler(recipesService),
		listH:    shoppinglist.NewHandler(listService),
		imagesH:  storage.NewHandler(store),
		db:       db,
		storage:  store,
	}
}

// RegisterRoutes builds the gin engine with all routes mounted.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetEnvOrDefault("FRONTEND_URL", "http://localhost:4200")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	s.authH.RegisterRoutes(r.Group("/auth"))

	guarded := r.Group("/", middleware.SessionGuard(s.orch))
	s.recipesH.RegisterRoutes(guarded.Group("/recipes"))
	s.listH.RegisterRoutes(guarded.Group("/shopping-list"))
	s.imagesH.RegisterRoutes(guarded.Group("/images"))

	return r
}

// NewHTTPServer wraps the routes in an http.Server with the configured
// timeouts.
func (s *Server) NewHTTPServer(cfg config.Config) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	response := gin.H{
		"status": "up",
		"auth":   s.orch.State().String(),
	}

	if s.db != nil {
		if err := s.db.Health(c.Request.Context()); err != nil {
			response["database"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			response["database"] = gin.H{"status": "up"}
		}
	}

	if s.storage != nil {
		if err := s.storage.Health(c.Request.Context()); err != nil {
			response["storage"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			response["storage"] = gin.H{"status": "up"}
		}
	}

	c.JSON(http.StatusOK, response)
}
