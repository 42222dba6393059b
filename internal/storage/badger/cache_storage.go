package badger

import (
	"context"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/interfaces"
)

// cachePrefix namespaces raw cache entries away from badgerhold records.
const cachePrefix = "reportcache:"

// CacheStorage implements the CacheStorage interface on the raw Badger
// database so entries can use native TTL expiry.
type CacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCacheStorage creates a new CacheStorage instance
func NewCacheStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CacheStorage {
	return &CacheStorage{
		db:     db,
		logger: logger,
	}
}

func cacheKey(key string) []byte {
	return []byte(cachePrefix + key)
}

// Get retrieves a cached value. Expired entries are treated as absent; Badger
// enforces the TTL at read time.
func (s *CacheStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.Store().Badger().View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(cacheKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badgerdb.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, true, nil
}

// Set stores a value with the given TTL.
func (s *CacheStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("cache entry TTL must be positive, got %s", ttl)
	}
	err := s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry(cacheKey(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes a cached value.
func (s *CacheStorage) Delete(ctx context.Context, key string) error {
	err := s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(cacheKey(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// SweepExpired reclaims space held by expired entries. Badger already hides
// them from reads; the value-log GC pass frees the disk space. Returns the
// number of GC rewrites performed.
func (s *CacheStorage) SweepExpired(ctx context.Context) (int, error) {
	rewrites := 0
	for {
		if err := ctx.Err(); err != nil {
			return rewrites, err
		}
		err := s.db.Store().Badger().RunValueLogGC(0.5)
		if err == badgerdb.ErrNoRewrite {
			break
		}
		if err != nil {
			return rewrites, fmt.Errorf("value log GC failed: %w", err)
		}
		rewrites++
	}

	s.logger.Debug().Int("rewrites", rewrites).Msg("Cache value log GC pass finished")
	return rewrites, nil
}
