package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	redisinfra "github.com/sanosuguru/go-venue-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// 予約操作の種別（メトリクスのラベル）
const (
	opCreate = "create"
	opUpdate = "update"
	opCancel = "cancel"
)

type EventService struct {
	eventRepo    event.Repository
	availability *AvailabilityChecker
	capacity     *CapacityChecker
	locker       SlotLocker
	publisher    BookingPublisher
	metrics      *metrics.Metrics
	now          func() time.Time
}

// EventServiceOption はEventServiceの任意の協調オブジェクトを設定する
type EventServiceOption func(*EventService)

// WithSlotLocker は会場・日付単位のロックを設定する
func WithSlotLocker(l SlotLocker) EventServiceOption {
	return func(s *EventService) { s.locker = l }
}

// WithCapacityCache は収容人数キャッシュを設定する
func WithCapacityCache(c CapacityCache) EventServiceOption {
	return func(s *EventService) { s.capacity.cache = c }
}

// WithPublisher は予約通知の配信先を設定する
func WithPublisher(p BookingPublisher) EventServiceOption {
	return func(s *EventService) { s.publisher = p }
}

// WithMetrics はメトリクスを設定する
func WithMetrics(m *metrics.Metrics) EventServiceOption {
	return func(s *EventService) {
		s.metrics = m
		s.capacity.metrics = m
	}
}

// WithClock は現在時刻の取得方法を差し替える
func WithClock(now func() time.Time) EventServiceOption {
	return func(s *EventService) { s.now = now }
}

func NewEventService(eventRepo event.Repository, venueRepo venue.Repository, opts ...EventServiceOption) *EventService {
	s := &EventService{
		eventRepo:    eventRepo,
		availability: NewAvailabilityChecker(eventRepo),
		capacity:     NewCapacityChecker(venueRepo, nil, nil),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEventInput は予約作成の入力
type CreateEventInput struct {
	UserID    int64
	VenueID   int64
	Day       int
	Month     int
	Year      int
	StartTime int
	EndTime   int
	Guests    int
}

func (in CreateEventInput) slot() event.Slot {
	return event.Slot{
		UserID:    in.UserID,
		VenueID:   in.VenueID,
		Day:       in.Day,
		Month:     in.Month,
		Year:      in.Year,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Guests:    in.Guests,
	}
}

// UpdateEventInput は予約更新の入力。UserID はリクエストしたユーザー
type UpdateEventInput struct {
	ID        int64
	UserID    int64
	VenueID   int64
	Day       int
	Month     int
	Year      int
	StartTime int
	EndTime   int
	Guests    int
}

// CreateEvent は空き状況や収容人数を確認せずにイベントを保存する
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	slot := input.slot()
	if err := slot.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	e := event.NewEvent(slot)
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return e, nil
}

// BookEvent は空き状況 → 収容人数の順に確認してからイベントを作成する
func (s *EventService) BookEvent(ctx context.Context, input CreateEventInput) (e *event.Event, err error) {
	defer func() { s.metrics.ObserveBooking(opCreate, bookingStatus(err)) }()

	slot := input.slot()
	if err := slot.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	unlock, err := s.lockSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkSlot(ctx, slot, 0); err != nil {
		return nil, err
	}

	e, err = s.CreateEvent(ctx, input)
	if err != nil {
		return nil, err
	}

	logger.Info("イベントを予約しました",
		zap.Int64("event_id", e.ID),
		zap.Int64("venue_id", e.VenueID),
		zap.Int64("user_id", e.UserID),
	)
	s.publish(ctx, event.BookingCreated, e)
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]*event.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *EventService) ListVenueEvents(ctx context.Context, venueID int64) ([]*event.Event, error) {
	return s.eventRepo.ListByVenue(ctx, venueID)
}

func (s *EventService) ListUserEvents(ctx context.Context, userID int64) ([]*event.Event, error) {
	return s.eventRepo.ListByUser(ctx, userID)
}

// ListActiveEvents はキャンセルされておらず、まだ開始していないイベントを返す
func (s *EventService) ListActiveEvents(ctx context.Context) ([]*event.Event, error) {
	events, err := s.eventRepo.ListNotCancelled(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]*event.Event, 0, len(events))
	for _, e := range events {
		if !e.HasHappened(now) {
			active = append(active, e)
		}
	}
	return active, nil
}

// UpdateEvent は所有者確認・キャンセル確認のあと、新しい枠を再検証して上書きする
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (e *event.Event, err error) {
	defer func() { s.metrics.ObserveBooking(opUpdate, bookingStatus(err)) }()

	e, err = s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if e.UserID != input.UserID {
		return nil, event.ErrNotEventOwner
	}
	if e.IsCancelled {
		return nil, event.ErrEventCancelled
	}

	slot := event.Slot{
		UserID:    e.UserID,
		VenueID:   input.VenueID,
		Day:       input.Day,
		Month:     input.Month,
		Year:      input.Year,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Guests:    input.Guests,
	}
	if err := slot.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	unlock, err := s.lockSlot(ctx, slot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkSlot(ctx, slot, e.ID); err != nil {
		return nil, err
	}

	e.Reschedule(slot)
	if err := s.eventRepo.Reschedule(ctx, e); err != nil {
		return nil, err
	}

	logger.Info("イベントを更新しました", zap.Int64("event_id", e.ID))
	s.publish(ctx, event.BookingUpdated, e)
	return e, nil
}

// CancelEvent は所有者確認のあとイベントをキャンセルする
// 既にキャンセル済みなら何もせずそのまま返す
func (s *EventService) CancelEvent(ctx context.Context, id, requestingUserID int64) (e *event.Event, err error) {
	defer func() { s.metrics.ObserveBooking(opCancel, bookingStatus(err)) }()

	e, err = s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != requestingUserID {
		return nil, event.ErrNotEventOwner
	}

	if !e.Cancel() {
		return e, nil
	}
	if err := s.eventRepo.Cancel(ctx, e.ID); err != nil {
		return nil, err
	}

	logger.Info("イベントをキャンセルしました", zap.Int64("event_id", e.ID))
	s.publish(ctx, event.BookingCancelled, e)
	return e, nil
}

// checkSlot は空き状況、収容人数の順に確認し、最初に失敗した理由を返す
func (s *EventService) checkSlot(ctx context.Context, slot event.Slot, excludeID int64) error {
	available, err := s.availability.isAvailable(ctx, slot, excludeID)
	if err != nil {
		return err
	}
	if !available {
		return event.ErrTimeSlotUnavailable
	}

	fits, err := s.capacity.CanFitGuests(ctx, slot.VenueID, slot.Guests)
	if err != nil {
		return err
	}
	if !fits {
		return event.ErrGuestsExceedCapacity
	}
	return nil
}

// lockSlot はロックが設定されていれば会場・日付のロックを取得する
func (s *EventService) lockSlot(ctx context.Context, slot event.Slot) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	date, err := event.EncodeDate(slot.Day, slot.Month, slot.Year)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	release, err := s.locker.LockSlot(ctx, slot.VenueID, date)
	s.metrics.ObserveLock("acquire", err == nil, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			return nil, event.ErrSlotBusy
		}
		return nil, fmt.Errorf("予約枠のロック取得に失敗: %w", err)
	}

	return func() {
		start := time.Now()
		err := release(context.WithoutCancel(ctx))
		s.metrics.ObserveLock("release", err == nil, time.Since(start).Seconds())
		if err != nil {
			logger.Warn("予約枠のロック解放に失敗しました",
				zap.Int64("venue_id", slot.VenueID),
				zap.String("date", date),
				zap.Error(err),
			)
		}
	}, nil
}

// publish は配信先が設定されていれば通知する。失敗しても予約は成功のまま
func (s *EventService) publish(ctx context.Context, t event.BookingMessageType, e *event.Event) {
	if s.publisher == nil {
		return
	}
	msg, err := event.NewBookingMessage(t, e, s.now())
	if err == nil {
		err = s.publisher.PublishBooking(ctx, msg)
	}
	if err != nil {
		logger.Warn("予約通知の配信に失敗しました",
			zap.String("type", string(t)),
			zap.Int64("event_id", e.ID),
			zap.Error(err),
		)
	}
}

// bookingStatus は予約操作の結果をメトリクスのラベルに変換する
func bookingStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, event.ErrTimeSlotUnavailable):
		return "unavailable"
	case errors.Is(err, event.ErrGuestsExceedCapacity):
		return "over_capacity"
	case errors.Is(err, event.ErrEventCancelled):
		return "cancelled"
	case errors.Is(err, event.ErrSlotBusy):
		return "lock_failed"
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "invalid"
	case apperr.KindForbidden:
		return "forbidden"
	case apperr.KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}
