package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fizzlog/fizzlog/internal/analytics"
	analyticsdomain "github.com/fizzlog/fizzlog/internal/analytics/domain"
	"github.com/fizzlog/fizzlog/internal/config"
	"github.com/fizzlog/fizzlog/internal/consumption"
	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	"github.com/fizzlog/fizzlog/internal/cylinder"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	"github.com/fizzlog/fizzlog/internal/observability"
	obslogger "github.com/fizzlog/fizzlog/internal/observability/logger"
	obsmetrics "github.com/fizzlog/fizzlog/internal/observability/metrics"
	obstracing "github.com/fizzlog/fizzlog/internal/observability/tracing"
	"github.com/fizzlog/fizzlog/internal/settings"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/fizzlog/fizzlog/internal/transfer"
	transferdomain "github.com/fizzlog/fizzlog/internal/transfer/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	settings.Module,
	cylinder.Module,
	consumption.Module,
	analytics.Module,
	transfer.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	settingsSvc    settingsdomain.Service
	cylinderSvc    cylinderdomain.Service
	consumptionSvc consumptiondomain.Service
	analyticsSvc   analyticsdomain.Service
	transferSvc    transferdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	SettingsSvc    settingsdomain.Service
	CylinderSvc    cylinderdomain.Service
	ConsumptionSvc consumptiondomain.Service
	AnalyticsSvc   analyticsdomain.Service
	TransferSvc    transferdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		settingsSvc:    p.SettingsSvc,
		cylinderSvc:    p.CylinderSvc,
		consumptionSvc: p.ConsumptionSvc,
		analyticsSvc:   p.AnalyticsSvc,
		transferSvc:    p.TransferSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	logs := api.Group("/logs")
	logs.GET("", s.ListLogs)
	logs.POST("", s.CreateLog)
	logs.GET("/:id", s.GetLog)
	logs.PUT("/:id", s.UpdateLog)
	logs.DELETE("/:id", s.DeleteLog)

	cylinders := api.Group("/cylinders")
	cylinders.GET("", s.ListCylinders)
	cylinders.POST("", s.CreateCylinder)
	cylinders.POST("/change-active", s.ChangeActiveCylinder)
	cylinders.GET("/:id", s.GetCylinder)
	cylinders.PUT("/:id", s.UpdateCylinder)
	cylinders.DELETE("/:id", s.DeleteCylinder)
	cylinders.GET("/:id/usage", s.CylinderUsage)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.GET("", s.PeriodAnalytics)
	analyticsGroup.GET("/dashboard", s.DashboardSummary)

	settingsGroup := api.Group("/settings")
	settingsGroup.GET("", s.ListSettings)
	settingsGroup.GET("/:key", s.GetSetting)
	settingsGroup.PUT("/:key", s.PutSetting)

	data := api.Group("/data")
	data.POST("/import", s.ImportCSV)
	data.GET("/export", s.ExportCSV)
	data.GET("/sample", s.SampleCSV)
}
