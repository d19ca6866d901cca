package app

import (
	"fmt"

	"markpedia-os/internal/config"
	"markpedia-os/internal/middleware"
	"markpedia-os/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects the stores and mounts every module on router.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app")
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if cfg.DB.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			return err
		}
		log.Info("database schema migrated")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
	if err != nil {
		return err
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS*5), cfg.RateLimitBurst*5),
	)

	return registerModules(router, cfg, sqlDB, gormDB, rdb, logger)
}
