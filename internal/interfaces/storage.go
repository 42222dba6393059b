package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/conspectus/internal/models"
)

// ErrKeyNotFound is returned when a key does not exist in storage
var ErrKeyNotFound = errors.New("key not found")

// ErrNotFound is returned when a stored record does not exist
var ErrNotFound = errors.New("not found")

// KeyValuePair represents a key/value entry with metadata
type KeyValuePair struct {
	Key         string `badgerhold:"key"`
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KeyValueStorage defines operations for generic key/value settings
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, description string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}

// StatusStorage persists session status records for the polling API
type StatusStorage interface {
	Save(ctx context.Context, status *models.SessionStatus) error
	Get(ctx context.Context, sessionID string) (*models.SessionStatus, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context, limit int) ([]models.SessionStatus, error)
}

// CacheStorage persists cached report results keyed by request hash.
// Entries are written with a TTL; Get treats expired entries as absent.
type CacheStorage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SweepExpired(ctx context.Context) (int, error)
}

// StorageManager provides access to the per-domain storages
type StorageManager interface {
	StatusStorage() StatusStorage
	CacheStorage() CacheStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
