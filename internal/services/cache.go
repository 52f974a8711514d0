package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/swiftship/parcel-service/internal/models"
)

const parcelCacheTTL = 10 * time.Minute

// ParcelCache is a best-effort Redis cache for the parcel read path.
// A nil *ParcelCache is valid and disables caching, so the service
// runs fine without Redis configured.
type ParcelCache struct {
	rdb *redis.Client
}

// NewParcelCache connects to Redis and verifies the connection.
func NewParcelCache(redisURL string) (*ParcelCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &ParcelCache{rdb: rdb}, nil
}

func parcelKey(id uuid.UUID) string {
	return "parcel:" + id.String()
}

func (c *ParcelCache) Get(ctx context.Context, id uuid.UUID) (*models.Parcel, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, parcelKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] get parcel %s: %v", id, err)
		}
		return nil, false
	}

	var parcel models.Parcel
	if err := json.Unmarshal([]byte(data), &parcel); err != nil {
		log.Printf("[cache] decode parcel %s: %v", id, err)
		return nil, false
	}
	return &parcel, true
}

func (c *ParcelCache) Set(ctx context.Context, parcel *models.Parcel) {
	if c == nil {
		return
	}

	data, err := json.Marshal(parcel)
	if err != nil {
		log.Printf("[cache] encode parcel %s: %v", parcel.ID, err)
		return
	}
	if err := c.rdb.Set(ctx, parcelKey(parcel.ID), data, parcelCacheTTL).Err(); err != nil {
		log.Printf("[cache] set parcel %s: %v", parcel.ID, err)
	}
}

func (c *ParcelCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}

	if err := c.rdb.Del(ctx, parcelKey(id)).Err(); err != nil {
		log.Printf("[cache] invalidate parcel %s: %v", id, err)
	}
}
