package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/user"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

type VenueService struct {
	venueRepo venue.Repository
	userRepo  user.Repository
	cache     CapacityCache
}

// NewVenueService はVenueServiceを作成する。cache は nil でもよい
func NewVenueService(venueRepo venue.Repository, userRepo user.Repository, cache CapacityCache) *VenueService {
	return &VenueService{venueRepo: venueRepo, userRepo: userRepo, cache: cache}
}

type CreateVenueInput struct {
	Name       string
	Address    string
	Postcode   string
	State      string
	Capacity   int
	HourlyRate float64
}

type UpdateVenueInput struct {
	ID         int64
	Capacity   int
	HourlyRate float64
}

// CreateVenue は管理者だけが会場を登録できる
func (s *VenueService) CreateVenue(ctx context.Context, requesterID int64, input CreateVenueInput) (*venue.Venue, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}

	v := venue.NewVenue(input.Name, input.Address, input.Postcode, venue.State(input.State), input.Capacity, input.HourlyRate)
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.venueRepo.Create(ctx, v); err != nil {
		return nil, err
	}

	logger.Info("会場を登録しました", zap.Int64("venue_id", v.ID), zap.String("name", v.Name))
	return v, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id int64) (*venue.Venue, error) {
	return s.venueRepo.GetByID(ctx, id)
}

func (s *VenueService) ListVenues(ctx context.Context) ([]*venue.Venue, error) {
	return s.venueRepo.List(ctx)
}

// UpdateVenue は収容人数と時間単価を更新する。既存の予約は再検証しない
func (s *VenueService) UpdateVenue(ctx context.Context, requesterID int64, input UpdateVenueInput) (*venue.Venue, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}

	v, err := s.venueRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := v.UpdatePricing(input.Capacity, input.HourlyRate); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.venueRepo.Update(ctx, v); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, v.ID); err != nil {
			logger.Warn("収容人数キャッシュの無効化に失敗しました", zap.Int64("venue_id", v.ID), zap.Error(err))
		}
	}
	return v, nil
}

func (s *VenueService) requireAdmin(ctx context.Context, userID int64) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrInvalidToken
		}
		return err
	}
	if !u.IsAdmin {
		return venue.ErrAdminRequired
	}
	return nil
}
