package main

import (
	"fmt"
	"os"
	"time"

	"github.com/itm-platform/itm-data-api/internal/cache"
	"github.com/itm-platform/itm-data-api/internal/db"
	"github.com/itm-platform/itm-data-api/internal/handlers"
	"github.com/itm-platform/itm-data-api/internal/logger"
	"github.com/itm-platform/itm-data-api/internal/middleware"
	"github.com/itm-platform/itm-data-api/internal/pdfrender"
	"github.com/itm-platform/itm-data-api/internal/repos"
	"github.com/itm-platform/itm-data-api/internal/server"
	"github.com/itm-platform/itm-data-api/internal/services"
	"github.com/itm-platform/itm-data-api/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	popplerBinPath := utils.GetEnv("POPPLER_BIN_PATH", "", log)
	corsOrigins := server.ParseOrigins(utils.GetEnv("CORS_ORIGINS", "", log))

	timeLocation := utils.GetEnv("TIME_LOCATION", "Local", log)
	loc, err := time.LoadLocation(timeLocation)
	if err != nil {
		log.Warn("Invalid TIME_LOCATION, falling back to Local", "value", timeLocation, "error", err)
		loc = time.Local
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis cache (optional)
	theCache := cache.New(log)
	defer theCache.Close()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	metricConfigRepo := repos.NewMetricConfigRepo(thePG, log)
	waferMapRepo := repos.NewWaferMapRepo(thePG, log)
	sdwtRepo := repos.NewSdwtRepo(thePG, log)
	equipmentRepo := repos.NewEquipmentRepo(thePG, log)
	errorLogRepo := repos.NewErrorLogRepo(thePG, log)
	perfRepo := repos.NewPerfRepo(thePG, log)
	lampLifeRepo := repos.NewLampLifeRepo(thePG, log)
	alertRepo := repos.NewAlertRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	converter := pdfrender.NewConverter(popplerBinPath, log)
	authService := services.NewAuthService(thePG, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second, log)
	waferService := services.NewWaferService(thePG, metricConfigRepo, theCache, loc, log)
	waferMapService := services.NewWaferMapService(waferMapRepo, converter, loc, log)
	filterService := services.NewFilterService(sdwtRepo, equipmentRepo, log)
	equipmentService := services.NewEquipmentService(equipmentRepo, log)
	performanceService := services.NewPerformanceService(perfRepo, loc, log)
	errorLogService := services.NewErrorLogService(errorLogRepo, loc, log)
	lampLifeService := services.NewLampLifeService(lampLifeRepo, log)
	dashboardService := services.NewDashboardService(thePG, errorLogRepo, loc, log)
	alertService := services.NewAlertService(alertRepo, loc, log)
	metricConfigService := services.NewMetricConfigService(metricConfigRepo, log)

	// Handlers
	log.Info("Setting up Handlers from main...")
	routerCfg := server.RouterConfig{
		CORSOrigins:         corsOrigins,
		HealthcheckHandler:  handlers.NewHealthcheckHandler(),
		AuthHandler:         handlers.NewAuthHandler(authService),
		AuthMiddleware:      middleware.NewAuthMiddleware(authService, log),
		WaferHandler:        handlers.NewWaferHandler(waferService, waferMapService),
		FilterHandler:       handlers.NewFilterHandler(filterService),
		EquipmentHandler:    handlers.NewEquipmentHandler(equipmentService),
		PerformanceHandler:  handlers.NewPerformanceHandler(performanceService),
		ErrorLogHandler:     handlers.NewErrorLogHandler(errorLogService),
		LampLifeHandler:     handlers.NewLampLifeHandler(lampLifeService),
		DashboardHandler:    handlers.NewDashboardHandler(dashboardService),
		AlertHandler:        handlers.NewAlertHandler(alertService),
		MetricConfigHandler: handlers.NewMetricConfigHandler(metricConfigService),
	}

	router := server.NewRouter(routerCfg)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
