package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wisharea/storefront/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Service   string    `bson:"service" json:"service"`
	Action    string    `bson:"action" json:"action"`
	EntityID  string    `bson:"entity_id" json:"entityId"`
	Data      bson.M    `bson:"data" json:"data,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Audit actions recorded by the storefront.
const (
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionSignup      = "signup"
	ActionLogout      = "logout"
	ActionPlaceOrder  = "place_order"
)

// AuditRecorder receives audit entries. Recording is best-effort; callers
// log failures and carry on.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, log *AuditLog) error
}

// AuditReader lists the entries recorded for one entity, newest first.
// A limit of zero or less means no limit.
type AuditReader interface {
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error)
}

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	collection := m.database.Collection(m.config.Collection)
	log.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, log)
	return err
}

func (m *MongoRepository) GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error) {
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		find.SetLimit(limit)
	}

	cursor, err := m.database.Collection(m.config.Collection).Find(ctx, bson.M{"entity_id": entityID}, find)
	if err != nil {
		return nil, fmt.Errorf("find audit logs for %s: %w", entityID, err)
	}
	defer cursor.Close(ctx)

	logs := []*AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode audit logs for %s: %w", entityID, err)
	}
	return logs, nil
}

// MemoryAuditLog keeps audit entries in memory when MongoDB is disabled.
type MemoryAuditLog struct {
	mu   sync.Mutex
	logs []*AuditLog
}

func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

func (m *MemoryAuditLog) CreateAuditLog(_ context.Context, log *AuditLog) error {
	log.CreatedAt = time.Now()

	m.mu.Lock()
	m.logs = append(m.logs, log)
	m.mu.Unlock()
	return nil
}

// Entries returns the recorded entries for entityID, newest first. An
// empty entityID returns everything.
func (m *MemoryAuditLog) Entries(entityID string) []*AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*AuditLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if entityID == "" || m.logs[i].EntityID == entityID {
			out = append(out, m.logs[i])
		}
	}
	return out
}

func (m *MemoryAuditLog) GetAuditLogs(_ context.Context, entityID string, limit int64) ([]*AuditLog, error) {
	out := m.Entries(entityID)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []*AuditLog{}
	}
	return out, nil
}
