package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// 所有者が一致するときだけ削除する
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// DistributedLock は Redis を使用した分散ロック
type DistributedLock struct {
	client *redis.Client
	key    string
	value  string
}

// LockOptions は予約枠ロックの取得設定
type LockOptions struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultLockOptions は予約枠ロックの既定値
func DefaultLockOptions(ttl time.Duration) LockOptions {
	return LockOptions{TTL: ttl, MaxRetries: 3, RetryDelay: 100 * time.Millisecond}
}

// LockManager は分散ロックを管理する
type LockManager struct {
	client *redis.Client
	opts   LockOptions
}

func NewLockManager(client *redis.Client, opts LockOptions) *LockManager {
	return &LockManager{client: client, opts: opts}
}

// SlotKey は会場・日付単位のロックキーを返す
func SlotKey(venueID int64, date string) string {
	return fmt.Sprintf("venue:%d:date:%s", venueID, date)
}

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	lockKey := "lock:" + key
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &DistributedLock{client: m.client, key: lockKey, value: lockValue}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*DistributedLock, error) {
	lastErr := ErrLockNotAcquired
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// LockSlot は会場・日付の予約枠ロックを取得し、解放関数を返す
func (m *LockManager) LockSlot(ctx context.Context, venueID int64, date string) (func(context.Context) error, error) {
	lock, err := m.AcquireLockWithRetry(ctx, SlotKey(venueID, date), m.opts.TTL, m.opts.MaxRetries, m.opts.RetryDelay)
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}

// Release はロックを解放する
func (l *DistributedLock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}
