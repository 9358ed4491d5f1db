package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/eshopcore/storefront/internal/adapter/config"
	"github.com/redis/go-redis/v9"
)

const eventTTL = 24 * time.Hour

// Store remembers webhook event IDs across at-least-once deliveries.
// SetNX gives a single atomic seen-and-mark step.
type Store struct {
	rdb *redis.Client
}

func NewStore(cfg *config.Redis) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{Addr: cfg.Addr}),
	}
}

func (s *Store) Seen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf("webhook:event:%s", eventID)
	ok, err := s.rdb.SetNX(ctx, key, "1", eventTTL).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
