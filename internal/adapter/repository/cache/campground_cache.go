package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trailpost/campground-service/internal/campground/domain"
)

const (
	detailsKeyPrefix = "campground:details:"
	detailsTTL       = 1 * time.Hour
)

// CampgroundCache keeps expanded campground views in Redis. Every mutating
// operation invalidates the entry, so a stale read lives at most one TTL.
type CampgroundCache struct {
	client *redis.Client
}

func NewCampgroundCache(addr string) (*CampgroundCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &CampgroundCache{client: client}, nil
}

// GetDetails returns the cached view, or nil on a miss.
func (c *CampgroundCache) GetDetails(ctx context.Context, id string) (*domain.CampgroundDetails, error) {
	data, err := c.client.Get(ctx, detailsKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var details domain.CampgroundDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *CampgroundCache) SetDetails(ctx context.Context, details *domain.CampgroundDetails) error {
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, detailsKeyPrefix+details.ID, data, detailsTTL).Err()
}

func (c *CampgroundCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, detailsKeyPrefix+id).Err()
}

// Close releases the underlying Redis connection.
func (c *CampgroundCache) Close() error {
	return c.client.Close()
}
