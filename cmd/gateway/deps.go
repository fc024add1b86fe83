package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wisharea/storefront/pkg/auth"
	"github.com/wisharea/storefront/pkg/checkout"
	"github.com/wisharea/storefront/pkg/config"
	"github.com/wisharea/storefront/pkg/grpc"
	"github.com/wisharea/storefront/pkg/repository"
	"go.uber.org/zap"
)

const demoUserID = "user-001"

type auditLog interface {
	repository.AuditRecorder
	repository.AuditReader
}

// dependencies holds the backing stores picked by configuration.
type dependencies struct {
	kv        repository.KV
	directory auth.Directory
	orders    repository.OrderRepository
	audit     auditLog
	checks    map[string]grpc.Checker
	closers   []func()
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func openDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	deps := &dependencies{checks: make(map[string]grpc.Checker)}

	if err := deps.openKV(ctx, cfg); err != nil {
		deps.Close()
		return nil, err
	}
	if err := deps.openRelational(ctx, cfg); err != nil {
		deps.Close()
		return nil, err
	}
	if err := deps.openAudit(cfg, logger); err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

func (d *dependencies) openKV(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case "redis":
		r := repository.NewRedisRepository(&cfg.Redis)
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.kv = r
		d.checks["storage"] = r.Ping
		d.closers = append(d.closers, func() { r.Close() })
	case "etcd":
		e, err := repository.NewEtcdRepository(&cfg.Etcd)
		if err != nil {
			return err
		}
		d.kv = e
		d.checks["storage"] = kvCheck(e)
		d.closers = append(d.closers, func() { e.Close() })
	case "memory", "":
		d.kv = repository.NewMemoryKV()
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

func (d *dependencies) openRelational(ctx context.Context, cfg *config.Config) error {
	if !cfg.MySQL.Enabled {
		dir, err := auth.NewMemoryDirectory(cfg.Auth.BcryptCost, auth.DemoAccounts()...)
		if err != nil {
			return err
		}
		d.directory = dir
		d.orders = repository.NewMemoryOrderRepository(checkout.DemoOrders(demoUserID)...)
		return nil
	}

	db, err := repository.OpenMySQL(&cfg.MySQL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	d.closers = append(d.closers, func() { sqlDB.Close() })
	d.checks["orders"] = sqlDB.PingContext

	dir := auth.NewGormDirectory(db, cfg.Auth.BcryptCost)
	if err := dir.EnsureAccounts(ctx, auth.DemoAccounts()...); err != nil {
		return err
	}
	orders := repository.NewGormOrderRepository(db)
	for _, o := range checkout.DemoOrders(demoUserID) {
		if _, err := orders.GetOrder(ctx, o.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
		if err := orders.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}
	d.directory = dir
	d.orders = orders
	return nil
}

func (d *dependencies) openAudit(cfg *config.Config, logger *zap.Logger) error {
	if !cfg.MongoDB.Enabled {
		d.audit = repository.NewMemoryAuditLog()
		return nil
	}
	m, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		return err
	}
	d.audit = m
	d.checks["audit"] = m.Ping
	d.closers = append(d.closers, func() {
		if err := m.Close(context.Background()); err != nil {
			logger.Warn("Failed to close MongoDB client", zap.Error(err))
		}
	})
	return nil
}

// kvCheck treats a missing key as a healthy round trip.
func kvCheck(kv repository.KV) grpc.Checker {
	return func(ctx context.Context) error {
		_, err := kv.Get(ctx, "health")
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return nil
	}
}
