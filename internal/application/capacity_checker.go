package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// CapacityChecker は会場が指定人数を収容できるかを判定する
type CapacityChecker struct {
	venueRepo venue.Repository
	cache     CapacityCache
	metrics   *metrics.Metrics
}

// NewCapacityChecker はCapacityCheckerを作成する。cache と m は nil でもよい
func NewCapacityChecker(venueRepo venue.Repository, cache CapacityCache, m *metrics.Metrics) *CapacityChecker {
	return &CapacityChecker{venueRepo: venueRepo, cache: cache, metrics: m}
}

// CanFitGuests は guests が会場の収容人数以下かを返す
func (c *CapacityChecker) CanFitGuests(ctx context.Context, venueID int64, guests int) (bool, error) {
	capacity, err := c.capacity(ctx, venueID)
	if err != nil {
		return false, err
	}
	return guests <= capacity, nil
}

func (c *CapacityChecker) capacity(ctx context.Context, venueID int64) (int, error) {
	if c.cache != nil {
		capacity, err := c.cache.GetCapacity(ctx, venueID)
		if err == nil {
			c.metrics.ObserveCache(true)
			return capacity, nil
		}
		c.metrics.ObserveCache(false)
		if !c.cache.IsMiss(err) {
			logger.Warn("収容人数キャッシュの取得に失敗しました", zap.Int64("venue_id", venueID), zap.Error(err))
		}
	}

	v, err := c.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return 0, err
	}

	if c.cache != nil {
		if err := c.cache.SetCapacity(ctx, venueID, v.Capacity); err != nil {
			logger.Warn("収容人数キャッシュの保存に失敗しました", zap.Int64("venue_id", venueID), zap.Error(err))
		}
	}
	return v.Capacity, nil
}
