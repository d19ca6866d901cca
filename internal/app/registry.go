package app

import (
	"database/sql"
	"net/http"

	"markpedia-os/internal/config"
	"markpedia-os/internal/leave"
	"markpedia-os/internal/leavebalance"
	"markpedia-os/internal/leavereport"
	"markpedia-os/internal/messaging/kafka"
	"markpedia-os/internal/middleware"
	"markpedia-os/internal/rbac"
	"markpedia-os/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	leaveRepo := leave.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACPolicyPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	ledger := leavebalance.NewLedger(balanceRepo, logger)
	balanceService := leavebalance.NewService(db, balanceRepo, cfg.Leave.DefaultAllotment, logger)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, ledger, outboxRepo, rdb, leave.Policy{
		CEOThresholdDays: cfg.Leave.CEOThresholdDays,
	}, logger)
	reportService := leavereport.NewService(leaveRepo, rdb, logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, logger)
	balanceHandler := leavebalance.NewHandler(balanceService, logger)
	reportHandler := leavereport.NewHandler(reportService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ExtractUserID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		middleware.Idempotency(rdb, logger),
	)
	{
		leavereport.RegisterRoutes(api, reportHandler, rbacService)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
