package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/licensing-api/api/swagger"
	"github.com/noah-isme/licensing-api/internal/handler"
	"github.com/noah-isme/licensing-api/internal/middleware"
	"github.com/noah-isme/licensing-api/internal/models"
	"github.com/noah-isme/licensing-api/internal/repository"
	"github.com/noah-isme/licensing-api/internal/service"
	"github.com/noah-isme/licensing-api/pkg/cache"
	"github.com/noah-isme/licensing-api/pkg/config"
	"github.com/noah-isme/licensing-api/pkg/database"
	"github.com/noah-isme/licensing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/licensing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/licensing-api/pkg/middleware/requestid"
)

// @title Student Licensing API
// @version 1.0.0
// @description License activation, checking, and admin lifecycle management
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
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}
	cancel()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.License.CheckCacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, check cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.License.CheckCacheTTL, logr, true)
		}
	}

	validate := validator.New()

	requestRepo := repository.NewRequestRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	requestSvc := service.NewRequestService(requestRepo, validate, logr)
	licenseSvc := service.NewLicenseService(licenseRepo, requestRepo, cacheSvc, cfg.License, logr)
	exportSvc := service.NewExportService(licenseRepo, nil, nil, logr)

	activationHandler := handler.NewActivationHandler(requestSvc)
	checkHandler := handler.NewCheckHandler(licenseSvc, metricsSvc)
	adminHandler := handler.NewAdminHandler(requestSvc, licenseSvc, exportSvc, cfg.Exports.Enabled, cfg.License.DefaultGrantDays)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	// Flat client endpoints, wire-compatible with the existing activation clients.
	r.POST("/api/request-activation", activationHandler.Submit)
	r.POST("/api/check", checkHandler.Check)

	// Newer clients use resource-style paths for the same operations.
	r.POST("/activation-requests", activationHandler.Submit)
	r.POST("/license-check", checkHandler.Check)

	// Admin surface; authentication lives in the gate in front of this API.
	admin := r.Group(cfg.APIPrefix + "/admin")
	admin.GET("/requests", adminHandler.ListRequests)
	admin.GET("/licenses", adminHandler.ListLicenses)
	admin.POST("/requests/:id/approve",
		middleware.Audit(auditRepo, logr, models.AuditActionRequestApprove, "activation_request"), adminHandler.Approve)
	admin.POST("/requests/:id/reject",
		middleware.Audit(auditRepo, logr, models.AuditActionRequestReject, "activation_request"), adminHandler.Reject)
	admin.POST("/licenses/:studentId/extend",
		middleware.Audit(auditRepo, logr, models.AuditActionLicenseExtend, "license"), adminHandler.Extend)
	admin.DELETE("/licenses/:studentId",
		middleware.Audit(auditRepo, logr, models.AuditActionLicenseRevoke, "license"), adminHandler.Revoke)
	admin.GET("/licenses/export",
		middleware.Audit(auditRepo, logr, models.AuditActionLicenseExport, "license"), adminHandler.Export)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env,
		"grace_days", cfg.License.GraceDays, "default_grant_days", cfg.License.DefaultGrantDays)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
