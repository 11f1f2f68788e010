package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

// BookCache is a read-through cache for assembled book detail payloads. Every
// write that can change a book's detail view (field updates, rating submits,
// relation changes, deletes) must invalidate the entry; readers treat any
// cache failure as a miss.
type BookCache interface {
	Get(ctx context.Context, bookID uuid.UUID, out interface{}) (bool, error)
	Set(ctx context.Context, bookID uuid.UUID, detail interface{}) error
	Invalidate(ctx context.Context, bookID uuid.UUID) error
	Close() error
}

type bookCache struct {
	log     *logger.Logger
	rdb     *goredis.Client
	ttl     time.Duration
	metrics *observability.Metrics
}

const bookCacheName = "book_detail"

// NewBookCache connects to REDIS_ADDR. Callers should treat a connection
// failure as "run without a cache", not as fatal.
func NewBookCache(log *logger.Logger, metrics *observability.Metrics) (BookCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := 5 * time.Minute
	if v := strings.TrimSpace(os.Getenv("BOOK_CACHE_TTL_SECONDS")); v != "" {
		if n, err := time.ParseDuration(v + "s"); err == nil && n > 0 {
			ttl = n
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &bookCache{
		log:     log.With("client", "BookCache"),
		rdb:     rdb,
		ttl:     ttl,
		metrics: metrics,
	}, nil
}

func bookCacheKey(bookID uuid.UUID) string {
	return "book:detail:" + bookID.String()
}

func (c *bookCache) Get(ctx context.Context, bookID uuid.UUID, out interface{}) (bool, error) {
	if c == nil || c.rdb == nil || bookID == uuid.Nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, bookCacheKey(bookID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.metrics.IncCacheMiss(bookCacheName)
		return false, nil
	}
	if err != nil {
		c.metrics.IncCacheMiss(bookCacheName)
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// Stale or corrupt payload; drop it and report a miss.
		_ = c.rdb.Del(ctx, bookCacheKey(bookID)).Err()
		c.metrics.IncCacheMiss(bookCacheName)
		return false, nil
	}
	c.metrics.IncCacheHit(bookCacheName)
	return true, nil
}

func (c *bookCache) Set(ctx context.Context, bookID uuid.UUID, detail interface{}) error {
	if c == nil || c.rdb == nil || bookID == uuid.Nil {
		return nil
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, bookCacheKey(bookID), raw, c.ttl).Err()
}

func (c *bookCache) Invalidate(ctx context.Context, bookID uuid.UUID) error {
	if c == nil || c.rdb == nil || bookID == uuid.Nil {
		return nil
	}
	return c.rdb.Del(ctx, bookCacheKey(bookID)).Err()
}

func (c *bookCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
