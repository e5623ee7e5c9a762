package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/resume-parser/internal/common"
)

// Mongo implements Store on a MongoDB collection. The connection is scoped
// per run: Connect once, defer Close so every exit path disconnects.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger
}

// Connect opens and pings a MongoDB client. A connect failure is fatal to the
// run and propagates with a descriptive message.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Mongo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, common.NewFatal("STORE_CONFIG", "invalid store configuration", err)
	}

	logger.Info("store.connect.start", "database", cfg.Database, "collection", cfg.Collection)
	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("store.connect.failed", "error", err)
		return nil, common.NewFatal("STORE_CONNECT", "failed to connect to document store", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		logger.Error("store.connect.failed", "error", err)
		return nil, common.NewFatal("STORE_CONNECT", "failed to reach document store", err)
	}
	logger.Info("store.connect.ok")

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger,
	}, nil
}

// Close disconnects the client. Safe to defer immediately after Connect.
func (m *Mongo) Close(ctx context.Context) {
	m.logger.Info("store.disconnect")
	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Warn("store.disconnect.failed", "error", err)
	}
}

// InsertOne inserts a single document and returns its generated identifier.
func (m *Mongo) InsertOne(ctx context.Context, doc any) (string, error) {
	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		m.logger.Error("store.insert.failed", "error", err)
		return "", fmt.Errorf("insert document: %w", err)
	}
	return idString(res.InsertedID), nil
}

// InsertMany inserts documents as one batch and returns their identifiers in
// input order.
func (m *Mongo) InsertMany(ctx context.Context, docs []any) ([]string, error) {
	res, err := m.coll.InsertMany(ctx, docs)
	if err != nil {
		m.logger.Error("store.insert.failed", "count", len(docs), "error", err)
		return nil, fmt.Errorf("insert documents: %w", err)
	}
	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		ids = append(ids, idString(id))
	}
	m.logger.Info("store.insert.ok", "count", len(ids))
	return ids, nil
}

// DeleteMany removes documents matching filter. Failures are reported as
// (0, false) and logged, never raised.
func (m *Mongo) DeleteMany(ctx context.Context, filter any) (int64, bool) {
	if filter == nil {
		filter = bson.D{}
	}
	res, err := m.coll.DeleteMany(ctx, filter)
	if err != nil {
		m.logger.Error("store.delete.failed", "error", err)
		return 0, false
	}
	return res.DeletedCount, true
}

// FindOne returns the first document matching filter, or ok=false when there
// is no match or the query fails.
func (m *Mongo) FindOne(ctx context.Context, filter any) (map[string]any, bool) {
	if filter == nil {
		filter = bson.D{}
	}
	var doc map[string]any
	err := m.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false
	}
	if err != nil {
		m.logger.Error("store.find.failed", "error", err)
		return nil, false
	}
	return doc, true
}

// Find returns all documents matching filter, or ok=false when the query
// fails.
func (m *Mongo) Find(ctx context.Context, filter any) ([]map[string]any, bool) {
	if filter == nil {
		filter = bson.D{}
	}
	cur, err := m.coll.Find(ctx, filter)
	if err != nil {
		m.logger.Error("store.find.failed", "error", err)
		return nil, false
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []map[string]any
	if err := cur.All(ctx, &docs); err != nil {
		m.logger.Error("store.find.failed", "error", err)
		return nil, false
	}
	return docs, true
}

func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
