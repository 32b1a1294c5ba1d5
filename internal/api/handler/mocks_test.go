package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-venue-booking/internal/api/middleware"
	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/domain/user"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) BookEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]*event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListVenueEvents(ctx context.Context, venueID int64) ([]*event.Event, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListUserEvents(ctx context.Context, userID int64) ([]*event.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) ListActiveEvents(ctx context.Context) ([]*event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) CancelEvent(ctx context.Context, id, requestingUserID int64) (*event.Event, error) {
	args := m.Called(ctx, id, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

// MockVenueService はVenueServiceInterfaceのモック
type MockVenueService struct {
	mock.Mock
}

func (m *MockVenueService) CreateVenue(ctx context.Context, requesterID int64, input application.CreateVenueInput) (*venue.Venue, error) {
	args := m.Called(ctx, requesterID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueService) GetVenue(ctx context.Context, id int64) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueService) ListVenues(ctx context.Context) ([]*venue.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*venue.Venue), args.Error(1)
}

func (m *MockVenueService) UpdateVenue(ctx context.Context, requesterID int64, input application.UpdateVenueInput) (*venue.Venue, error) {
	args := m.Called(ctx, requesterID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

// MockAuthService はAuthServiceInterfaceのモック
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input application.RegisterInput) (*application.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*application.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.AuthResult), args.Error(1)
}

// testTokenParser は "valid-token" だけを userID のトークンとして受け付ける
type testTokenParser struct {
	userID int64
}

func (p testTokenParser) ParseToken(tokenString string) (*application.TokenClaims, error) {
	if tokenString != "valid-token" {
		return nil, user.ErrInvalidToken
	}
	return &application.TokenClaims{UserID: p.userID}, nil
}

// testTokenUserID はテストでトークンを持つユーザー
const testTokenUserID int64 = 1

// newTestServer は本番と同じルーティングでハンドラーを登録したEchoを返す
// 使わないサービスは nil でよい
func newTestServer(events EventServiceInterface, venues VenueServiceInterface, auth AuthServiceInterface) *echo.Echo {
	e := NewTestEcho()
	RegisterRoutes(e, Routes{
		Health:      NewHealthHandler(nil),
		Auth:        NewAuthHandler(auth),
		Venue:       NewVenueHandler(venues),
		Event:       NewEventHandler(events),
		RequireAuth: middleware.JWTAuth(testTokenParser{userID: testTokenUserID}),
	})
	return e
}

// doRequest はトークン付きでリクエストを送る。token が空ならヘッダーを付けない
func doRequest(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
