package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wisharea/storefront/gateway"
	"github.com/wisharea/storefront/pkg/actor"
	"github.com/wisharea/storefront/pkg/cart"
	"github.com/wisharea/storefront/pkg/catalog"
	"github.com/wisharea/storefront/pkg/checkout"
	"github.com/wisharea/storefront/pkg/config"
	"github.com/wisharea/storefront/pkg/grpc"
	"github.com/wisharea/storefront/pkg/logging"
	"github.com/wisharea/storefront/pkg/session"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", envOr("STOREFRONT_CONFIG", "config/config.yaml"), "path to the YAML config")
	flag.Parse()

	// Local .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront",
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("port", cfg.Gateway.Port),
		zap.String("host", cfg.Gateway.Host))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := openDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open dependencies", zap.Error(err))
	}
	defer deps.Close()

	pricing, err := cart.PricingFromConfig(cfg.Pricing)
	if err != nil {
		logger.Fatal("Invalid pricing config", zap.Error(err))
	}
	rates, err := checkout.RatesFromConfig(cfg.Pricing)
	if err != nil {
		logger.Fatal("Invalid pricing config", zap.Error(err))
	}

	processor, err := actor.NewProcessor(logger, cfg.Checkout.Latency, cfg.Checkout.Timeout)
	if err != nil {
		logger.Fatal("Failed to start order actors", zap.Error(err))
	}
	defer processor.Close()

	sessions, err := session.NewManager(session.Options{
		KV:          deps.kv,
		Namespace:   cfg.Storage.Namespace,
		Directory:   deps.directory,
		Processor:   processor,
		Orders:      deps.orders,
		Audit:       deps.audit,
		Pricing:     pricing,
		Rates:       rates,
		AuthLatency: cfg.Auth.Latency,
		Secret:      []byte(cfg.Session.Secret),
		TokenTTL:    cfg.Session.TokenTTL,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to create session manager", zap.Error(err))
	}

	gw := gateway.NewGateway(cfg, logger, gateway.Backends{
		Catalog:  catalog.NewDefault(),
		Sessions: sessions,
		Orders:   deps.orders,
		Tracker:  processor,
		Audit:    deps.audit,
	})
	gw.SetupRoutes()

	health := grpc.NewHealthServer(cfg, logger)
	for name, check := range deps.checks {
		health.Register(name, check)
	}
	go health.Watch(ctx, 15*time.Second)

	errCh := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			errCh <- fmt.Errorf("gateway: %w", err)
		}
	}()
	go func() {
		if err := health.Start(); err != nil {
			errCh <- fmt.Errorf("health: %w", err)
		}
	}()

	logger.Info("Storefront started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := gw.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Gateway shutdown", zap.Error(err))
	}
	health.Stop()

	logger.Info("Storefront stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
