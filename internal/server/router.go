package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"iqtest-service/internal/config"
	"iqtest-service/internal/handlers"
	"iqtest-service/internal/metrics"
	"iqtest-service/internal/models"
	"iqtest-service/internal/service"
	"iqtest-service/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Funnel  *service.FunnelService
	Counter handlers.Counter
	Metrics *metrics.Metrics // optional
	Logger  *slog.Logger
}

// NewRouter builds the engine serving the whole funnel:
// pages, the question script, both submission endpoints, /health and,
// when metrics are supplied, /metrics.
func NewRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(
		RequestLogger(logger),
		Recovery(logger, cfg.Server.Debug),
		ErrorHandler(cfg.Server.Debug),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.SetHTMLTemplate(tmpl)

	pageHandler := handlers.NewPageHandler(cfg.Server.ServiceName)
	funnelHandler := handlers.NewFunnelHandler(deps.Funnel)
	healthHandler := handlers.NewHealthHandler(
		cfg.Server.ServiceName,
		cfg.Server.ServiceVersion,
		cfg.Server.Environment,
		deps.Counter,
	)

	pageHandler.Register(r, models.Pages)
	r.StaticFileFS(models.PathQuestionsScript, "questions.js", http.FS(web.Static()))

	r.POST(models.PathSubmitTest, funnelHandler.SubmitTest)
	r.POST(models.PathSubmitEmail, funnelHandler.SubmitEmail)

	r.GET(models.PathHealth, healthHandler.Health)
	if deps.Metrics != nil {
		r.GET(models.PathMetrics, gin.WrapH(deps.Metrics.Handler()))
	}

	r.NoRoute(handlers.NotFound)

	return r, nil
}
