package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/anitime-dev/anitime-api/api/swagger"
	"github.com/anitime-dev/anitime-api/internal/handler"
	"github.com/anitime-dev/anitime-api/internal/middleware"
	"github.com/anitime-dev/anitime-api/internal/models"
	"github.com/anitime-dev/anitime-api/internal/repository"
	"github.com/anitime-dev/anitime-api/internal/service"
	"github.com/anitime-dev/anitime-api/pkg/cache"
	"github.com/anitime-dev/anitime-api/pkg/config"
	"github.com/anitime-dev/anitime-api/pkg/database"
	"github.com/anitime-dev/anitime-api/pkg/logger"
	corsmiddleware "github.com/anitime-dev/anitime-api/pkg/middleware/cors"
	reqidmiddleware "github.com/anitime-dev/anitime-api/pkg/middleware/requestid"
)

// @title AniTime API
// @version 1.0.0
// @description TV anime broadcast schedule service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The schedule grid is rebuilt from Postgres on every request
		// when the cache is down, so boot anyway.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	programRepo := repository.NewProgramRepository(db)
	workRepo := repository.NewWorkRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	seasonRepo := repository.NewSeasonRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Schedule.CacheTTL, logr, redisClient != nil)

	scheduleSvc := service.NewScheduleService(programRepo, cacheSvc, metricsSvc, cfg.Schedule.CacheTTL, logr)
	programSvc := service.NewProgramService(programRepo, workRepo, userRepo, scheduleSvc, validate, logr)
	workSvc := service.NewWorkService(workRepo, userRepo, scheduleSvc, validate, cfg.Updates.Limit, logr)
	channelSvc := service.NewChannelService(channelRepo, areaRepo, scheduleSvc, validate, logr)
	seasonSvc := service.NewSeasonService(seasonRepo, scheduleSvc, validate, logr)
	tagSvc := service.NewTagService(tagRepo, scheduleSvc, validate, logr)
	exportSvc := service.NewExportService(programRepo, cfg.Exports.Enabled, cfg.Exports.PDFFontPath, logr)
	ogpSvc := service.NewOpenGraphService(cacheSvc, cfg.OGP.FetchTimeout, cfg.OGP.CacheTTL, cfg.OGP.UserAgent, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "anitime-api",
		Audience:           []string{"anitime"},
	})

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, exportSvc)
	programHandler := handler.NewProgramHandler(programSvc, scheduleSvc)
	workHandler := handler.NewWorkHandler(workSvc, programSvc)
	channelHandler := handler.NewChannelHandler(channelSvc)
	seasonHandler := handler.NewSeasonHandler(seasonSvc)
	tagHandler := handler.NewTagHandler(tagSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	ogpHandler := handler.NewOpenGraphHandler(ogpSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	public := api.Group("")
	public.Use(middleware.OptionalJWT(authSvc))
	{
		schedule := public.Group("")
		schedule.Use(middleware.WithResponseMeta())
		schedule.GET("/schedule", scheduleHandler.Grid)
		schedule.GET("/channels/:id/schedule", scheduleHandler.Week)

		public.GET("/schedule/export", scheduleHandler.Export)

		public.GET("/programs", programHandler.ListByIDs)
		public.GET("/programs/:id", programHandler.Get)

		public.GET("/works", workHandler.List)
		public.GET("/works/search", workHandler.Search)
		public.GET("/works/:id", workHandler.Get)
		public.GET("/works/:id/programs", workHandler.Programs)
		public.GET("/updates", workHandler.Updates)

		public.GET("/channels", channelHandler.ListChannels)
		public.GET("/channels/:id", channelHandler.GetChannel)
		public.GET("/areas", channelHandler.ListAreas)
		public.GET("/seasons", seasonHandler.List)
		public.GET("/seasons/:id", seasonHandler.Get)
		public.GET("/tags", tagHandler.List)

		public.GET("/og-image", ogpHandler.Preview)
	}

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.POST("/auth/change-password", authHandler.ChangePassword)
		authed.GET("/auth/me", authHandler.Me)
		authed.GET("/metrics/summary", metricsHandler.Snapshot)
	}

	editor := api.Group("")
	editor.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))
	{
		editor.POST("/programs", programHandler.Create)
		editor.PUT("/programs/:id", programHandler.Update)
		editor.DELETE("/programs/:id", programHandler.Delete)

		editor.POST("/works", workHandler.Create)
		editor.PUT("/works/:id", workHandler.Update)
		editor.DELETE("/works/:id", workHandler.Delete)
		editor.PUT("/works/:id/programs/reorder", programHandler.Reorder)

		editor.POST("/channels", channelHandler.CreateChannel)
		editor.PUT("/channels/:id", channelHandler.UpdateChannel)
		editor.DELETE("/channels/:id", channelHandler.DeleteChannel)

		editor.POST("/areas", channelHandler.CreateArea)
		editor.PUT("/areas/:id", channelHandler.UpdateArea)
		editor.DELETE("/areas/:id", channelHandler.DeleteArea)

		editor.POST("/seasons", seasonHandler.Create)
		editor.PUT("/seasons/:id", seasonHandler.Update)
		editor.DELETE("/seasons/:id", seasonHandler.Delete)

		editor.POST("/tags", tagHandler.Create)
		editor.PUT("/tags/:id", tagHandler.Update)
		editor.DELETE("/tags/:id", tagHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
