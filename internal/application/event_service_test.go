package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	redisinfra "github.com/sanosuguru/go-venue-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

func bookingInput() CreateEventInput {
	return CreateEventInput{
		UserID:    1,
		VenueID:   1,
		Day:       1,
		Month:     1,
		Year:      2023,
		StartTime: 18,
		EndTime:   22,
		Guests:    50,
	}
}

func testVenue(capacity int) *venue.Venue {
	return &venue.Venue{ID: 1, Name: "Hall", Address: "1 St", Postcode: "2000", State: venue.StateNSW, Capacity: capacity, HourlyRate: 100}
}

func storedEvent() *event.Event {
	return &event.Event{
		ID: 10, UserID: 1, VenueID: 1,
		Day: 1, Month: 1, Year: 2023,
		StartTime: 15, EndTime: 20, Guests: 30,
	}
}

func newTestEventService(opts ...EventServiceOption) (*EventService, *MockEventRepository, *MockVenueRepository) {
	eventRepo := new(MockEventRepository)
	venueRepo := new(MockVenueRepository)
	return NewEventService(eventRepo, venueRepo, opts...), eventRepo, venueRepo
}

// === AvailabilityChecker ===

func TestAvailabilityChecker_OutsideOpeningHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"開始が8時前", 7, 10},
		{"開始が0時", 0, 3},
		{"終了が22時過ぎ", 20, 23},
		{"終了が24時", 21, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockEventRepository)
			checker := NewAvailabilityChecker(repo)

			s := bookingInput().slot()
			s.StartTime, s.EndTime = tt.start, tt.end

			ok, err := checker.IsTimeSlotAvailable(context.Background(), s)

			require.NoError(t, err)
			assert.False(t, ok)
			repo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything)
		})
	}
}

func TestAvailabilityChecker_Conflict(t *testing.T) {
	// 既存: 会場1、2023-01-01、15時〜20時。候補: 18時〜22時
	repo := new(MockEventRepository)
	checker := NewAvailabilityChecker(repo)
	ctx := context.Background()

	repo.On("HasConflict", ctx, event.ConflictQuery{
		VenueID: 1, Date: "2023-01-01", EarliestStart: 15, LatestEnd: 25,
	}).Return(true, nil)

	ok, err := checker.IsTimeSlotAvailable(ctx, bookingInput().slot())

	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertExpectations(t)
}

func TestAvailabilityChecker_NoConflict(t *testing.T) {
	// 候補: 10時〜13時。境界は 7 と 16 で問い合わせる
	repo := new(MockEventRepository)
	checker := NewAvailabilityChecker(repo)
	ctx := context.Background()

	s := bookingInput().slot()
	s.StartTime, s.EndTime = 10, 13

	repo.On("HasConflict", ctx, event.ConflictQuery{
		VenueID: 1, Date: "2023-01-01", EarliestStart: 7, LatestEnd: 16,
	}).Return(false, nil)

	ok, err := checker.IsTimeSlotAvailable(ctx, s)

	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestAvailabilityChecker_RepositoryError(t *testing.T) {
	repo := new(MockEventRepository)
	checker := NewAvailabilityChecker(repo)
	dbErr := errors.New("connection refused")

	repo.On("HasConflict", mock.Anything, mock.Anything).Return(false, dbErr)

	ok, err := checker.IsTimeSlotAvailable(context.Background(), bookingInput().slot())

	assert.False(t, ok)
	assert.ErrorIs(t, err, dbErr)
}

// === CapacityChecker ===

func TestCapacityChecker_CanFitGuests(t *testing.T) {
	tests := []struct {
		name   string
		guests int
		want   bool
	}{
		{"収容人数未満", 99, true},
		{"収容人数ちょうど", 100, true},
		{"収容人数超過", 101, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockVenueRepository)
			repo.On("GetByID", mock.Anything, int64(1)).Return(testVenue(100), nil)
			checker := NewCapacityChecker(repo, nil, nil)

			ok, err := checker.CanFitGuests(context.Background(), 1, tt.guests)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCapacityChecker_VenueNotFound(t *testing.T) {
	repo := new(MockVenueRepository)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, venue.ErrVenueNotFound)
	checker := NewCapacityChecker(repo, nil, nil)

	ok, err := checker.CanFitGuests(context.Background(), 99, 1)

	assert.False(t, ok)
	assert.ErrorIs(t, err, venue.ErrVenueNotFound)
}

func TestCapacityChecker_CacheHit(t *testing.T) {
	repo := new(MockVenueRepository)
	cache := new(MockCapacityCache)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	cache.On("GetCapacity", mock.Anything, int64(1)).Return(40, nil)
	checker := NewCapacityChecker(repo, cache, m)

	ok, err := checker.CanFitGuests(context.Background(), 1, 41)

	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VenueCacheRequests.WithLabelValues("hit")))
}

func TestCapacityChecker_CacheMiss(t *testing.T) {
	repo := new(MockVenueRepository)
	cache := new(MockCapacityCache)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	cache.On("GetCapacity", mock.Anything, int64(1)).Return(0, errMockCacheMiss)
	cache.On("SetCapacity", mock.Anything, int64(1), 100).Return(nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(testVenue(100), nil)
	checker := NewCapacityChecker(repo, cache, m)

	ok, err := checker.CanFitGuests(context.Background(), 1, 100)

	require.NoError(t, err)
	assert.True(t, ok)
	cache.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VenueCacheRequests.WithLabelValues("miss")))
}

func TestCapacityChecker_CacheFailureFallsBackToRepository(t *testing.T) {
	repo := new(MockVenueRepository)
	cache := new(MockCapacityCache)
	cache.On("GetCapacity", mock.Anything, int64(1)).Return(0, errors.New("redis down"))
	cache.On("SetCapacity", mock.Anything, int64(1), 100).Return(errors.New("redis down"))
	repo.On("GetByID", mock.Anything, int64(1)).Return(testVenue(100), nil)
	checker := NewCapacityChecker(repo, cache, nil)

	ok, err := checker.CanFitGuests(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.True(t, ok)
}

// === EventService.CreateEvent ===

func TestEventService_CreateEvent_TrustsInput(t *testing.T) {
	service, eventRepo, venueRepo := newTestEventService()
	ctx := context.Background()

	eventRepo.On("Create", ctx, mock.AnythingOfType("*event.Event")).
		Run(func(args mock.Arguments) { args.Get(1).(*event.Event).ID = 5 }).
		Return(nil)

	e, err := service.CreateEvent(ctx, bookingInput())

	require.NoError(t, err)
	assert.Equal(t, int64(5), e.ID)
	assert.False(t, e.IsCancelled)
	eventRepo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything)
	venueRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestEventService_CreateEvent_ValidationError(t *testing.T) {
	service, eventRepo, _ := newTestEventService()

	input := bookingInput()
	input.Guests = 0

	e, err := service.CreateEvent(context.Background(), input)

	assert.Nil(t, e)
	assert.ErrorIs(t, err, event.ErrInvalidGuests)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// === EventService.BookEvent ===

func TestEventService_BookEvent_Success(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	publisher := new(MockPublisher)
	fixed := time.Date(2022, 12, 1, 9, 0, 0, 0, time.UTC)
	service, eventRepo, venueRepo := newTestEventService(
		WithMetrics(m), WithPublisher(publisher), WithClock(func() time.Time { return fixed }),
	)
	ctx := context.Background()

	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(1)).Return(testVenue(50), nil)
	eventRepo.On("Create", ctx, mock.AnythingOfType("*event.Event")).
		Run(func(args mock.Arguments) { args.Get(1).(*event.Event).ID = 11 }).
		Return(nil)
	publisher.On("PublishBooking", ctx, mock.MatchedBy(func(msg event.BookingMessage) bool {
		return msg.Type == event.BookingCreated && msg.EventID == 11 && msg.Date == "2023-01-01" && msg.OccurredAt.Equal(fixed)
	})).Return(nil)

	e, err := service.BookEvent(ctx, bookingInput())

	require.NoError(t, err)
	assert.Equal(t, int64(11), e.ID)
	assert.Equal(t, 50, e.Guests)
	eventRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("create", "success")))
}

func TestEventService_BookEvent_TimeSlotUnavailable(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	service, eventRepo, venueRepo := newTestEventService(WithMetrics(m))
	ctx := context.Background()

	eventRepo.On("HasConflict", ctx, mock.Anything).Return(true, nil)

	e, err := service.BookEvent(ctx, bookingInput())

	assert.Nil(t, e)
	assert.ErrorIs(t, err, event.ErrTimeSlotUnavailable)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	venueRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("create", "unavailable")))
}

func TestEventService_BookEvent_OutsideOpeningHours(t *testing.T) {
	service, eventRepo, _ := newTestEventService()

	input := bookingInput()
	input.StartTime, input.EndTime = 6, 9

	_, err := service.BookEvent(context.Background(), input)

	assert.ErrorIs(t, err, event.ErrTimeSlotUnavailable)
	eventRepo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything)
}

func TestEventService_BookEvent_ExceedsCapacity(t *testing.T) {
	service, eventRepo, venueRepo := newTestEventService()
	ctx := context.Background()

	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(1)).Return(testVenue(49), nil)

	e, err := service.BookEvent(ctx, bookingInput())

	assert.Nil(t, e)
	assert.ErrorIs(t, err, event.ErrGuestsExceedCapacity)
	eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEventService_BookEvent_UnknownVenue(t *testing.T) {
	service, eventRepo, venueRepo := newTestEventService()
	ctx := context.Background()

	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(1)).Return(nil, venue.ErrVenueNotFound)

	_, err := service.BookEvent(ctx, bookingInput())

	assert.ErrorIs(t, err, venue.ErrVenueNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEventService_BookEvent_ValidationError(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(in *CreateEventInput)
		expectedErr error
	}{
		{"ユーザーIDなし", func(in *CreateEventInput) { in.UserID = 0 }, event.ErrUserIDRequired},
		{"会場IDなし", func(in *CreateEventInput) { in.VenueID = 0 }, event.ErrVenueIDRequired},
		{"月が13", func(in *CreateEventInput) { in.Month = 13 }, event.ErrInvalidDate},
		{"開始が終了より後", func(in *CreateEventInput) { in.StartTime, in.EndTime = 20, 19 }, event.ErrInvalidTimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, eventRepo, _ := newTestEventService()
			input := bookingInput()
			tt.modify(&input)

			_, err := service.BookEvent(context.Background(), input)

			assert.ErrorIs(t, err, tt.expectedErr)
			eventRepo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything)
		})
	}
}

func TestEventService_BookEvent_WithSlotLock(t *testing.T) {
	locker := new(MockSlotLocker)
	service, eventRepo, venueRepo := newTestEventService(WithSlotLocker(locker))
	ctx := context.Background()

	locker.On("LockSlot", ctx, int64(1), "2023-01-01").Return(nil)
	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(1)).Return(testVenue(100), nil)
	eventRepo.On("Create", ctx, mock.Anything).Return(nil)

	_, err := service.BookEvent(ctx, bookingInput())

	require.NoError(t, err)
	locker.AssertExpectations(t)
	assert.Equal(t, 1, locker.released)
}

func TestEventService_BookEvent_SlotBusy(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	locker := new(MockSlotLocker)
	service, eventRepo, _ := newTestEventService(WithSlotLocker(locker), WithMetrics(m))
	ctx := context.Background()

	locker.On("LockSlot", ctx, int64(1), "2023-01-01").Return(redisinfra.ErrLockNotAcquired)

	_, err := service.BookEvent(ctx, bookingInput())

	assert.ErrorIs(t, err, event.ErrSlotBusy)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	eventRepo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("create", "lock_failed")))
}

func TestEventService_BookEvent_LockError(t *testing.T) {
	locker := new(MockSlotLocker)
	service, _, _ := newTestEventService(WithSlotLocker(locker))
	redisErr := errors.New("i/o timeout")

	locker.On("LockSlot", mock.Anything, mock.Anything, mock.Anything).Return(redisErr)

	_, err := service.BookEvent(context.Background(), bookingInput())

	assert.ErrorIs(t, err, redisErr)
	assert.NotErrorIs(t, err, event.ErrSlotBusy)
}

func TestEventService_BookEvent_PublishFailureDoesNotFail(t *testing.T) {
	publisher := new(MockPublisher)
	service, eventRepo, venueRepo := newTestEventService(WithPublisher(publisher))
	ctx := context.Background()

	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(1)).Return(testVenue(100), nil)
	eventRepo.On("Create", ctx, mock.Anything).Return(nil)
	publisher.On("PublishBooking", ctx, mock.Anything).Return(errors.New("broker down"))

	e, err := service.BookEvent(ctx, bookingInput())

	require.NoError(t, err)
	assert.NotNil(t, e)
	publisher.AssertExpectations(t)
}

// === 取得・一覧 ===

func TestEventService_GetEvent(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("GetByID", ctx, int64(404)).Return(nil, event.ErrEventNotFound)

	e, err := service.GetEvent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), e.ID)

	_, err = service.GetEvent(ctx, 404)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEventService_Lists(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	ctx := context.Background()
	events := []*event.Event{storedEvent(), {ID: 11, UserID: 2, VenueID: 1}}

	eventRepo.On("List", ctx).Return(events, nil)
	eventRepo.On("ListByVenue", ctx, int64(1)).Return(events, nil)
	eventRepo.On("ListByUser", ctx, int64(3)).Return([]*event.Event{}, nil)

	all, err := service.ListEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, events, all)

	byVenue, err := service.ListVenueEvents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, []int64{byVenue[0].ID, byVenue[1].ID})

	byUser, err := service.ListUserEvents(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, byUser)
}

func TestEventService_ListActiveEvents(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	service, eventRepo, _ := newTestEventService(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	future := now.AddDate(0, 0, 7)
	past := now.AddDate(0, 0, -7)
	futureEvent := &event.Event{ID: 1, Day: future.Day(), Month: int(future.Month()), Year: future.Year(), StartTime: 12, EndTime: 14}
	pastEvent := &event.Event{ID: 2, Day: past.Day(), Month: int(past.Month()), Year: past.Year(), StartTime: 12, EndTime: 14}

	eventRepo.On("ListNotCancelled", ctx).Return([]*event.Event{pastEvent, futureEvent}, nil)

	active, err := service.ListActiveEvents(ctx)

	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].ID)
}

func TestEventService_ListActiveEvents_RepositoryError(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	dbErr := errors.New("db error")
	eventRepo.On("ListNotCancelled", mock.Anything).Return(nil, dbErr)

	_, err := service.ListActiveEvents(context.Background())

	assert.ErrorIs(t, err, dbErr)
}

// === EventService.UpdateEvent ===

func updateInput() UpdateEventInput {
	return UpdateEventInput{
		ID: 10, UserID: 1, VenueID: 2,
		Day: 2, Month: 1, Year: 2023,
		StartTime: 10, EndTime: 13, Guests: 40,
	}
}

func TestEventService_UpdateEvent_Success(t *testing.T) {
	publisher := new(MockPublisher)
	service, eventRepo, venueRepo := newTestEventService(WithPublisher(publisher))
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("HasConflict", ctx, event.ConflictQuery{
		VenueID: 2, Date: "2023-01-02", EarliestStart: 7, LatestEnd: 16, ExcludeID: 10,
	}).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(2)).Return(testVenue(40), nil)
	eventRepo.On("Reschedule", ctx, mock.MatchedBy(func(e *event.Event) bool {
		return e.ID == 10 && e.VenueID == 2 && e.Day == 2 && e.StartTime == 10 && e.Guests == 40 && e.UserID == 1
	})).Return(nil)
	publisher.On("PublishBooking", ctx, mock.MatchedBy(func(msg event.BookingMessage) bool {
		return msg.Type == event.BookingUpdated
	})).Return(nil)

	e, err := service.UpdateEvent(ctx, updateInput())

	require.NoError(t, err)
	assert.Equal(t, int64(2), e.VenueID)
	assert.False(t, e.IsCancelled)
	eventRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestEventService_UpdateEvent_NotOwner(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)

	// 不正な枠でも所有者確認が先
	input := updateInput()
	input.UserID = 2
	input.Month = 13

	_, err := service.UpdateEvent(ctx, input)

	assert.ErrorIs(t, err, event.ErrNotEventOwner)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	eventRepo.AssertNotCalled(t, "HasConflict", mock.Anything, mock.Anything)
	eventRepo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
}

func TestEventService_UpdateEvent_Cancelled(t *testing.T) {
	service, eventRepo, venueRepo := newTestEventService()
	ctx := context.Background()

	cancelled := storedEvent()
	cancelled.IsCancelled = true
	eventRepo.On("GetByID", ctx, int64(10)).Return(cancelled, nil)
	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil).Maybe()
	venueRepo.On("GetByID", ctx, mock.Anything).Return(testVenue(1000), nil).Maybe()

	_, err := service.UpdateEvent(ctx, updateInput())

	assert.ErrorIs(t, err, event.ErrEventCancelled)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	eventRepo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	eventRepo.On("GetByID", mock.Anything, int64(10)).Return(nil, event.ErrEventNotFound)

	_, err := service.UpdateEvent(context.Background(), updateInput())

	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestEventService_UpdateEvent_Unavailable(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("HasConflict", ctx, mock.Anything).Return(true, nil)

	_, err := service.UpdateEvent(ctx, updateInput())

	assert.ErrorIs(t, err, event.ErrTimeSlotUnavailable)
	eventRepo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
}

func TestEventService_UpdateEvent_ExceedsCapacity(t *testing.T) {
	service, eventRepo, venueRepo := newTestEventService()
	ctx := context.Background()

	original := storedEvent()
	eventRepo.On("GetByID", ctx, int64(10)).Return(original, nil)
	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(2)).Return(testVenue(39), nil)

	_, err := service.UpdateEvent(ctx, updateInput())

	assert.ErrorIs(t, err, event.ErrGuestsExceedCapacity)
	assert.Equal(t, int64(1), original.VenueID, "失敗時は上書きしない")
	eventRepo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything)
}

func TestEventService_UpdateEvent_ExcludesItselfFromConflicts(t *testing.T) {
	service, eventRepo, venueRepo := newTestEventService()
	ctx := context.Background()

	// 保存済みの 15-20 を同じ日の 16-21 にずらす。自分自身は競合に数えない
	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("HasConflict", ctx, event.ConflictQuery{
		VenueID: 1, Date: "2023-01-01", EarliestStart: 13, LatestEnd: 24, ExcludeID: 10,
	}).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(1)).Return(testVenue(100), nil)
	eventRepo.On("Reschedule", ctx, mock.Anything).Return(nil)

	input := updateInput()
	input.VenueID = 1
	input.Day = 1
	input.StartTime = 16
	input.EndTime = 21
	input.Guests = 30

	e, err := service.UpdateEvent(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, 16, e.StartTime)
	assert.Equal(t, 21, e.EndTime)
	eventRepo.AssertExpectations(t)
}

func TestEventService_UpdateEvent_CancelledBeforeWrite(t *testing.T) {
	publisher := new(MockPublisher)
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	service, eventRepo, venueRepo := newTestEventService(WithPublisher(publisher), WithMetrics(m))
	ctx := context.Background()

	// 読み込み時点では有効だが、書き込みまでの間にキャンセルされた
	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("HasConflict", ctx, mock.Anything).Return(false, nil)
	venueRepo.On("GetByID", ctx, int64(2)).Return(testVenue(100), nil)
	eventRepo.On("Reschedule", ctx, mock.Anything).Return(event.ErrEventCancelled)

	e, err := service.UpdateEvent(ctx, updateInput())

	assert.Nil(t, e)
	assert.ErrorIs(t, err, event.ErrEventCancelled)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	publisher.AssertNotCalled(t, "PublishBooking", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("update", "cancelled")))
}

// === EventService.CancelEvent ===

func TestEventService_CancelEvent_Success(t *testing.T) {
	publisher := new(MockPublisher)
	service, eventRepo, _ := newTestEventService(WithPublisher(publisher))
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("Cancel", ctx, int64(10)).Return(nil)
	publisher.On("PublishBooking", ctx, mock.MatchedBy(func(msg event.BookingMessage) bool {
		return msg.Type == event.BookingCancelled
	})).Return(nil)

	e, err := service.CancelEvent(ctx, 10, 1)

	require.NoError(t, err)
	assert.True(t, e.IsCancelled)
	eventRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestEventService_CancelEvent_NotOwner(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	ctx := context.Background()

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)

	_, err := service.CancelEvent(ctx, 10, 2)

	assert.ErrorIs(t, err, event.ErrNotEventOwner)
	eventRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestEventService_CancelEvent_AlreadyCancelled(t *testing.T) {
	publisher := new(MockPublisher)
	service, eventRepo, _ := newTestEventService(WithPublisher(publisher))
	ctx := context.Background()

	cancelled := storedEvent()
	cancelled.IsCancelled = true
	eventRepo.On("GetByID", ctx, int64(10)).Return(cancelled, nil)

	e, err := service.CancelEvent(ctx, 10, 1)

	require.NoError(t, err)
	assert.True(t, e.IsCancelled)
	eventRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishBooking", mock.Anything, mock.Anything)
}

func TestEventService_CancelEvent_RepositoryError(t *testing.T) {
	service, eventRepo, _ := newTestEventService()
	ctx := context.Background()
	dbErr := errors.New("db error")

	eventRepo.On("GetByID", ctx, int64(10)).Return(storedEvent(), nil)
	eventRepo.On("Cancel", ctx, int64(10)).Return(dbErr)

	_, err := service.CancelEvent(ctx, 10, 1)

	assert.ErrorIs(t, err, dbErr)
}

func TestBookingStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{event.ErrTimeSlotUnavailable, "unavailable"},
		{event.ErrGuestsExceedCapacity, "over_capacity"},
		{event.ErrEventCancelled, "cancelled"},
		{event.ErrSlotBusy, "lock_failed"},
		{event.ErrInvalidGuests, "invalid"},
		{event.ErrNotEventOwner, "forbidden"},
		{event.ErrEventNotFound, "not_found"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, bookingStatus(tt.err))
		})
	}
}
