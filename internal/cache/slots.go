package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/advisorydesk/advisory-scheduler/internal/domain/schedule"
	"github.com/advisorydesk/advisory-scheduler/internal/models"
)

// SlotsCache caches open-slot listings. Invalidation bumps a
// generation counter instead of scanning keys; stale generations
// simply age out with the TTL.
type SlotsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotsCache(addr, password string, db int, ttl time.Duration) *SlotsCache {
	return &SlotsCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (c *SlotsCache) GetOpenSlots(
	ctx context.Context,
	q domain.OpenSlotsQuery,
) ([]models.Slot, bool, error) {

	key, err := c.listKey(ctx, q)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var slots []models.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *SlotsCache) SetOpenSlots(
	ctx context.Context,
	q domain.OpenSlotsQuery,
	slots []models.Slot,
) error {

	key, err := c.listKey(ctx, q)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Invalidate drops every cached listing by moving to a new generation.
func (c *SlotsCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, genKey()).Err()
}

func (c *SlotsCache) listKey(
	ctx context.Context,
	q domain.OpenSlotsQuery,
) (string, error) {

	gen, err := c.client.Get(ctx, genKey()).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}

	return fmt.Sprintf(
		"slots:open:g%d:%s:%s:%s",
		gen, q.ServiceType, q.From, q.To,
	), nil
}

func genKey() string {
	return "slots:open:gen"
}
