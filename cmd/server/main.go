package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digistore/internal/pkg/common"
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/middleware"
	"digistore/internal/pkg/registry"
	"digistore/internal/pkg/seed"
	"digistore/internal/pkg/uploader"
	"digistore/pkg/cache"
	"digistore/pkg/database"
	"digistore/pkg/logger"
	"digistore/pkg/metrics"

	_ "digistore/docs"
	_ "digistore/internal/domain/catalog"
	_ "digistore/internal/domain/coupon"
	_ "digistore/internal/domain/hotdeal"
	_ "digistore/internal/domain/order"
	_ "digistore/internal/domain/payment"
	_ "digistore/internal/domain/siteconfig"
	_ "digistore/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Digistore API
// @version 1.0
// @description Digital goods storefront: catalog, checkout, coupons, payments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	if err := config.GlobalConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(config.GlobalConfig.Server.Mode)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()
	cacheSvc := cache.NewRedisCache(rdb, "digistore")
	collector := metrics.NewCollector()

	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	stopSampler := make(chan struct{})
	collector.StartDBPoolSampler(sqlDB, 15*time.Second, stopSampler)

	if err := uploader.InitUploader(); err != nil {
		// Uploads are admin-only; the storefront works without OSS.
		logger.Warn("Object storage unavailable, uploads disabled", zap.Error(err))
	}

	if config.GlobalConfig.App.Seed {
		if err := seed.Run(db); err != nil {
			logger.Log.Fatal("Seeding failed", zap.Error(err))
		}
	}

	gin.SetMode(config.GlobalConfig.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(collector))
	r.Use(middleware.RateLimitMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	upload := r.Group("/api/admin")
	upload.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	upload.POST("/upload", common.UploadFile)

	moduleCtx := &registry.ModuleContext{
		DB:      db,
		Redis:   rdb,
		Cache:   cacheSvc,
		Router:  r,
		Metrics: collector,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Module initialization failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + config.GlobalConfig.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", config.GlobalConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	close(stopSampler)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
