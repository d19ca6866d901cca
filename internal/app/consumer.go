package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"markpedia-os/internal/bootstrap"
	"markpedia-os/internal/config"
	"markpedia-os/internal/events"
	"markpedia-os/internal/leavebalance"
	"markpedia-os/internal/messaging/kafka/consumer"
	"markpedia-os/internal/notification"
	"markpedia-os/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer runs the employee lifecycle and leave lifecycle consumers until
// SIGINT/SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	balanceRepo := leavebalance.NewRepository(gormDB)
	balanceService := leavebalance.NewService(sqlDB, balanceRepo, cfg.Leave.DefaultAllotment, logger)
	auditLogger := bootstrap.NewStdoutAuditLogger(logger)
	notifier := notification.New(cfg.SMTP, logger)

	employeeReader := connection.NewKafkaReader(cfg.Kafka.Broker, cfg.Kafka.ConsumerGroup+"-balance", events.EmployeeCreatedTopic)
	defer employeeReader.Close()
	leaveReader := connection.NewKafkaReader(cfg.Kafka.Broker, cfg.Kafka.ConsumerGroup+"-audit", events.LeaveLifecycleTopic)
	defer leaveReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, balanceService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveLifecycle(ctx, leaveReader, auditLogger, notifier, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
