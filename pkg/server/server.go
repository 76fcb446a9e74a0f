package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"

	"storycraft/pkg/catalog"
	"storycraft/pkg/pipeline"
)

type Server struct {
	Echo     *echo.Echo
	Pipeline *pipeline.Pipeline
	Catalog  *catalog.Catalog
	Ctx      context.Context

	// CatalogErr is the load warning, if the template resource was unusable.
	CatalogErr error
}

func NewServer(ctx context.Context, p *pipeline.Pipeline, c *catalog.Catalog, catalogErr error) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	if c == nil {
		c = catalog.New()
	}
	s := &Server{
		Echo:       e,
		Pipeline:   p,
		Catalog:    c,
		Ctx:        ctx,
		CatalogErr: catalogErr,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.Echo.Group("/api")
	api.GET("/options", s.handleGetOptions)
	api.GET("/catalog/schema", s.handleGetCatalogSchema)
	api.GET("/creations/schema", s.handleGetRequestSchema)

	api.POST("/creations", s.handlePostCreation)              // runs the pipeline once
	api.POST("/creations/stream", s.handlePostCreationStream) // same, reporting stages over SSE
	api.GET("/creations/:id/text", s.handleGetText)
	api.GET("/creations/:id/document", s.handleGetDocument)

	api.GET("/archive", s.handleGetArchive)
	api.GET("/archive/entries", s.handleGetArchiveEntries)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	return s.Echo.Shutdown(ctx)
}
