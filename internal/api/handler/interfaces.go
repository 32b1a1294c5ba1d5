package handler

import (
	"context"

	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	BookEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id int64) (*event.Event, error)
	ListEvents(ctx context.Context) ([]*event.Event, error)
	ListVenueEvents(ctx context.Context, venueID int64) ([]*event.Event, error)
	ListUserEvents(ctx context.Context, userID int64) ([]*event.Event, error)
	ListActiveEvents(ctx context.Context) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	CancelEvent(ctx context.Context, id, requestingUserID int64) (*event.Event, error)
}

// VenueServiceInterface は会場サービスのインターフェース
type VenueServiceInterface interface {
	CreateVenue(ctx context.Context, requesterID int64, input application.CreateVenueInput) (*venue.Venue, error)
	GetVenue(ctx context.Context, id int64) (*venue.Venue, error)
	ListVenues(ctx context.Context) ([]*venue.Venue, error)
	UpdateVenue(ctx context.Context, requesterID int64, input application.UpdateVenueInput) (*venue.Venue, error)
}

// AuthServiceInterface は認証サービスのインターフェース
type AuthServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*application.AuthResult, error)
	Login(ctx context.Context, email, password string) (*application.AuthResult, error)
}
