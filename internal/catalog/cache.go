package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

const (
	cacheKeyAll      = "catalog:services:all"
	cacheKeyBookable = "catalog:services:bookable"
)

// CachedRepository decorates a Repository with a Redis read-through cache
// for the hot list paths. Admin mutations invalidate the cached lists; cache
// failures fall back to the underlying repository.
type CachedRepository struct {
	Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps repo with a Redis cache. A nil client returns
// the repository unwrapped.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration, logger *logging.Logger) Repository {
	if client == nil {
		return repo
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedRepository{Repository: repo, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedRepository) List(ctx context.Context) ([]*Service, error) {
	return c.cachedList(ctx, cacheKeyAll, c.Repository.List)
}

func (c *CachedRepository) ListBookable(ctx context.Context) ([]*Service, error) {
	return c.cachedList(ctx, cacheKeyBookable, c.Repository.ListBookable)
}

func (c *CachedRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	svc, err := c.Repository.Create(ctx, req)
	if err == nil {
		c.invalidate(ctx)
	}
	return svc, err
}

func (c *CachedRepository) Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error) {
	svc, err := c.Repository.Update(ctx, id, req)
	if err == nil {
		c.invalidate(ctx)
	}
	return svc, err
}

func (c *CachedRepository) Delete(ctx context.Context, id string) error {
	err := c.Repository.Delete(ctx, id)
	if err == nil {
		c.invalidate(ctx)
	}
	return err
}

func (c *CachedRepository) cachedList(ctx context.Context, key string, load func(context.Context) ([]*Service, error)) ([]*Service, error) {
	raw, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var services []*Service
		if err := json.Unmarshal([]byte(raw), &services); err == nil {
			return services, nil
		}
		c.logger.Warn("catalog cache entry corrupt, reloading", "key", key)
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}

	services, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(services); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", "key", key, "error", err)
		}
	}
	return services, nil
}

func (c *CachedRepository) invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, cacheKeyAll, cacheKeyBookable).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}
