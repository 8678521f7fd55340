package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/itm-platform/itm-data-api/internal/handlers"
	"github.com/itm-platform/itm-data-api/internal/middleware"
)

type RouterConfig struct {
	CORSOrigins []string

	HealthcheckHandler  *handlers.HealthcheckHandler
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	WaferHandler        *handlers.WaferHandler
	FilterHandler       *handlers.FilterHandler
	EquipmentHandler    *handlers.EquipmentHandler
	PerformanceHandler  *handlers.PerformanceHandler
	ErrorLogHandler     *handlers.ErrorLogHandler
	LampLifeHandler     *handlers.LampLifeHandler
	DashboardHandler    *handlers.DashboardHandler
	AlertHandler        *handlers.AlertHandler
	MetricConfigHandler *handlers.MetricConfigHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/api/auth/register", cfg.AuthHandler.Register)
	router.POST("/api/auth/login", cfg.AuthHandler.Login)
	router.POST("/api/auth/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/auth/logout", cfg.AuthHandler.Logout)

	// Wafer metrology
	wafer := api.Group("/wafer")
	wafer.GET("/distinct/:column", cfg.WaferHandler.DistinctValues)
	wafer.GET("/points", cfg.WaferHandler.DistinctPoints)
	wafer.GET("/flat", cfg.WaferHandler.FlatData)
	wafer.GET("/statistics", cfg.WaferHandler.Statistics)
	wafer.GET("/point-data", cfg.WaferHandler.PointData)
	wafer.GET("/residual-map", cfg.WaferHandler.ResidualMap)
	wafer.GET("/uniformity-trend", cfg.WaferHandler.LotUniformityTrend)
	wafer.GET("/spectrum", cfg.WaferHandler.Spectrum)
	wafer.GET("/spectrum/trend", cfg.WaferHandler.SpectrumTrend)
	wafer.GET("/spectrum/gen", cfg.WaferHandler.SpectrumGen)
	wafer.GET("/spectrum/golden", cfg.WaferHandler.GoldenSpectrum)
	wafer.GET("/optical-trend", cfg.WaferHandler.OpticalTrend)
	wafer.GET("/comparison", cfg.WaferHandler.ComparisonData)
	wafer.GET("/metrics", cfg.WaferHandler.AvailableMetrics)
	wafer.GET("/matching-equipments", cfg.WaferHandler.MatchingEquipments)
	wafer.GET("/map/check", cfg.WaferHandler.CheckWaferMap)
	wafer.GET("/map/image", cfg.WaferHandler.WaferMapImage)

	// Filter selectors
	filters := api.Group("/filters")
	filters.GET("/sites", cfg.FilterHandler.Sites)
	filters.GET("/sdwts", cfg.FilterHandler.Sdwts)
	filters.GET("/eqpids", cfg.FilterHandler.EquipmentIDs)

	// Equipment registry
	eqp := api.Group("/equipment")
	eqp.GET("", cfg.EquipmentHandler.List)
	eqp.GET("/details", cfg.EquipmentHandler.Details)
	eqp.GET("/:eqpid", cfg.EquipmentHandler.Get)
	eqp.POST("", cfg.EquipmentHandler.Create)
	eqp.PUT("/:eqpid", cfg.EquipmentHandler.Update)
	eqp.DELETE("/:eqpid", cfg.EquipmentHandler.Delete)

	// Agent performance
	perf := api.Group("/performance")
	perf.GET("/system", cfg.PerformanceHandler.SystemHistory)
	perf.GET("/process", cfg.PerformanceHandler.ProcessHistory)
	perf.GET("/agent-trend", cfg.PerformanceHandler.AgentTrend)

	// Error log
	errs := api.Group("/errors")
	errs.GET("/summary", cfg.ErrorLogHandler.Summary)
	errs.GET("", cfg.ErrorLogHandler.List)

	// Lamp life
	api.GET("/lamp-life", cfg.LampLifeHandler.List)

	// Dashboard
	dash := api.Group("/dashboard")
	dash.GET("/summary", cfg.DashboardHandler.Summary)
	dash.GET("/agent-status", cfg.DashboardHandler.AgentStatus)

	// Alerts
	alerts := api.Group("/alerts")
	alerts.GET("", cfg.AlertHandler.List)
	alerts.POST("/:id/ack", cfg.AlertHandler.Ack)

	// Metric config admin
	metricCfg := api.Group("/config/metrics")
	metricCfg.GET("", cfg.MetricConfigHandler.List)
	metricCfg.POST("", cfg.MetricConfigHandler.Upsert)
	metricCfg.DELETE("/:name", cfg.MetricConfigHandler.Delete)

	return router
}

// ParseOrigins splits the CORS_ORIGINS env value into a clean origin list.
func ParseOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
