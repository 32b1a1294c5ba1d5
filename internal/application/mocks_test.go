package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/domain/user"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

// MockEventRepository はevent.Repositoryのモック
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]*event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByVenue(ctx context.Context, venueID int64) ([]*event.Event, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByUser(ctx context.Context, userID int64) ([]*event.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListNotCancelled(ctx context.Context) ([]*event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) HasConflict(ctx context.Context, q event.ConflictQuery) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Reschedule(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVenueRepository はvenue.Repositoryのモック
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id int64) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) List(ctx context.Context) ([]*venue.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) Update(ctx context.Context, v *venue.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

// MockUserRepository はuser.Repositoryのモック
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockCapacityCache はCapacityCacheのモック
type MockCapacityCache struct {
	mock.Mock
}

var errMockCacheMiss = &cacheMissError{}

type cacheMissError struct{}

func (*cacheMissError) Error() string { return "cache miss" }

func (m *MockCapacityCache) GetCapacity(ctx context.Context, venueID int64) (int, error) {
	args := m.Called(ctx, venueID)
	return args.Int(0), args.Error(1)
}

func (m *MockCapacityCache) SetCapacity(ctx context.Context, venueID int64, capacity int) error {
	args := m.Called(ctx, venueID, capacity)
	return args.Error(0)
}

func (m *MockCapacityCache) Invalidate(ctx context.Context, venueID int64) error {
	args := m.Called(ctx, venueID)
	return args.Error(0)
}

func (m *MockCapacityCache) IsMiss(err error) bool {
	return err == errMockCacheMiss
}

// MockSlotLocker はSlotLockerのモック
type MockSlotLocker struct {
	mock.Mock
	released int
}

func (m *MockSlotLocker) LockSlot(ctx context.Context, venueID int64, date string) (func(context.Context) error, error) {
	args := m.Called(ctx, venueID, date)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

// MockPublisher はBookingPublisherのモック
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBooking(ctx context.Context, msg event.BookingMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
