package report

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default Mongo names used when MongoConfig leaves them empty.
const (
	DefaultMongoDatabase   = "neuroc"
	DefaultMongoCollection = "runs"
)

// MongoConfig configures a MongoSink.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoSink stores each summary as one document.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to MongoDB and pings the primary.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoSink{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// WriteSummary inserts s.
func (m *MongoSink) WriteSummary(ctx context.Context, s Summary) error {
	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert run %s: %w", s.RunID, err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoSink) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Sink = (*MongoSink)(nil)
