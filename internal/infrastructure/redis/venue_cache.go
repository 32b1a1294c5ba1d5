package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// VenueCache は会場の収容人数をキャッシュする
type VenueCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVenueCache は新しいVenueCacheインスタンスを作成する
func NewVenueCache(client *redis.Client, ttl time.Duration) *VenueCache {
	return &VenueCache{client: client, ttl: ttl}
}

// GetCapacity は会場の収容人数をキャッシュから取得する
func (c *VenueCache) GetCapacity(ctx context.Context, venueID int64) (int, error) {
	val, err := c.client.Get(ctx, capacityKey(venueID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetCapacity は会場の収容人数をキャッシュに保存する
func (c *VenueCache) SetCapacity(ctx context.Context, venueID int64, capacity int) error {
	if err := c.client.Set(ctx, capacityKey(venueID), capacity, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は会場のキャッシュを無効化する
func (c *VenueCache) Invalidate(ctx context.Context, venueID int64) error {
	if err := c.client.Del(ctx, capacityKey(venueID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

// IsMiss はキャッシュミスかを返す
func (c *VenueCache) IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

func capacityKey(venueID int64) string {
	return fmt.Sprintf("venue:capacity:%d", venueID)
}
