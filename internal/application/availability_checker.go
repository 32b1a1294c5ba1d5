package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
)

// AvailabilityChecker は営業時間と既存予約から枠が空いているかを判定する
type AvailabilityChecker struct {
	eventRepo event.Repository
}

func NewAvailabilityChecker(eventRepo event.Repository) *AvailabilityChecker {
	return &AvailabilityChecker{eventRepo: eventRepo}
}

// IsTimeSlotAvailable は枠が予約可能かを返す
func (c *AvailabilityChecker) IsTimeSlotAvailable(ctx context.Context, s event.Slot) (bool, error) {
	return c.isAvailable(ctx, s, 0)
}

// isAvailable は excludeID のイベントを競合対象から外して判定する
func (c *AvailabilityChecker) isAvailable(ctx context.Context, s event.Slot, excludeID int64) (bool, error) {
	// 営業時間外は問い合わせるまでもなく不可
	if !s.WithinOpeningHours() {
		return false, nil
	}

	date, err := event.EncodeDate(s.Day, s.Month, s.Year)
	if err != nil {
		return false, err
	}

	earliestStart, latestEnd := s.ConflictBounds()
	conflict, err := c.eventRepo.HasConflict(ctx, event.ConflictQuery{
		VenueID:       s.VenueID,
		Date:          date,
		EarliestStart: earliestStart,
		LatestEnd:     latestEnd,
		ExcludeID:     excludeID,
	})
	if err != nil {
		return false, fmt.Errorf("空き状況の確認に失敗しました: %w", err)
	}
	return !conflict, nil
}
