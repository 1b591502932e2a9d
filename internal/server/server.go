package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/core"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/graph"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

type Server struct {
	Explorer    *core.Explorer
	Collector   *observability.Collector
	SearchLimit int
	logger      *zap.Logger
}

func NewServer(explorer *core.Explorer, collector *observability.Collector, searchLimit int, logger *zap.Logger) *Server {
	if searchLimit <= 0 {
		searchLimit = graph.DefaultSearchLimit
	}
	return &Server{
		Explorer:    explorer,
		Collector:   collector,
		SearchLimit: searchLimit,
		logger:      logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(s.logger), Metrics(s.Collector))

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(s.Collector.Handler()))

	api := r.Group("/api")
	api.GET("/options", s.Options)
	api.POST("/locations/state", s.LocationState)
	api.POST("/locations/toggle", s.LocationToggle)
	api.GET("/filters", s.GetFilters)
	api.PUT("/filters", s.PutFilters)
	api.GET("/graph", s.Graph)
	api.POST("/highlight", s.Highlight)
	api.GET("/search", s.Search)
	api.GET("/records/:id", s.Record)
	api.POST("/reload", s.Reload)

	return r
}
