package application

import (
	"context"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
)

// SlotLocker は会場・日付単位で予約の確認と書き込みを直列化する
// 取得できたら解放関数を返す
type SlotLocker interface {
	LockSlot(ctx context.Context, venueID int64, date string) (func(context.Context) error, error)
}

// CapacityCache は会場の収容人数のキャッシュ
type CapacityCache interface {
	GetCapacity(ctx context.Context, venueID int64) (int, error)
	SetCapacity(ctx context.Context, venueID int64, capacity int) error
	Invalidate(ctx context.Context, venueID int64) error
	IsMiss(err error) bool
}

// BookingPublisher は予約ライフサイクルの通知を配信する
type BookingPublisher interface {
	PublishBooking(ctx context.Context, msg event.BookingMessage) error
}
