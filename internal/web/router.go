// Package web serves the story form and its JSON API over gin.
package web

import (
	"embed"
	"html/template"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/internal/metrics"
	"github.com/lamim/horrorforge/internal/story"
)

const indexTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

// Router owns the gin engine and its routes
type Router struct {
	engine    *gin.Engine
	cfg       *config.Config
	handler   *StoryHandler
	collector *metrics.Collector
	logger    *slog.Logger
}

// New builds the engine with middleware and routes installed
func New(cfg *config.Config, submitter story.Submitter, collector *metrics.Collector, logger *slog.Logger) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := &Router{
		engine:    gin.New(),
		cfg:       cfg,
		handler:   NewStoryHandler(submitter, cfg.Story),
		collector: collector,
		logger:    logger,
	}

	r.engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine returns the http.Handler to serve
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(Recovery(r.logger))
	r.engine.Use(RequestID(r.logger))
	r.engine.Use(RequestLogger(r.logger))
	r.engine.Use(CORS(r.cfg.Server.CORSAllowedOrigins))
	if r.cfg.Metrics.Enabled {
		r.engine.Use(Metrics(r.collector))
	}
}

func (r *Router) setupRoutes() {
	r.engine.GET("/", r.handler.Index)
	r.engine.POST("/generate", r.handler.Generate)
	r.engine.GET("/health", Health)

	if r.cfg.Metrics.Enabled {
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/api/v1")
	{
		v1.POST("/stories", r.handler.CreateStory)
	}
}
