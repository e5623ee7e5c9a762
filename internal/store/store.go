package store

import (
	"context"

	"github.com/resume-parser/internal/common"
)

// Config identifies the target collection, loaded from
// configuration/mongo_db.json.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// ConfigFromMap builds a Config from a decoded mongo_db.json mapping.
func ConfigFromMap(m map[string]any) Config {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	return Config{
		URI:        str("uri"),
		Database:   str("database_name"),
		Collection: str("collection_name"),
	}
}

func (c Config) Validate() error {
	if c.URI == "" {
		return common.NewAppError("STORE_CONFIG", "uri is required", common.ErrInvalidInput)
	}
	if c.Database == "" {
		return common.NewAppError("STORE_CONFIG", "database_name is required", common.ErrInvalidInput)
	}
	if c.Collection == "" {
		return common.NewAppError("STORE_CONFIG", "collection_name is required", common.ErrInvalidInput)
	}
	return nil
}

// Store is the document-store contract the pipeline depends on. Insert
// failures propagate as errors; delete and find failures are soft and
// reported through the ok flag, never raised.
type Store interface {
	InsertOne(ctx context.Context, doc any) (string, error)
	InsertMany(ctx context.Context, docs []any) ([]string, error)
	DeleteMany(ctx context.Context, filter any) (int64, bool)
	FindOne(ctx context.Context, filter any) (map[string]any, bool)
	Find(ctx context.Context, filter any) ([]map[string]any, bool)
}
