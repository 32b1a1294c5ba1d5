package event

import "time"

// BookingMessageType は予約ライフサイクルの通知種別
type BookingMessageType string

const (
	BookingCreated   BookingMessageType = "booking.created"
	BookingUpdated   BookingMessageType = "booking.updated"
	BookingCancelled BookingMessageType = "booking.cancelled"
)

// BookingMessage は予約の作成・更新・キャンセルを外部に通知するメッセージ
type BookingMessage struct {
	Type       BookingMessageType `json:"type"`
	EventID    int64              `json:"event_id"`
	UserID     int64              `json:"user_id"`
	VenueID    int64              `json:"venue_id"`
	Date       string             `json:"date"`
	StartTime  int                `json:"start_time"`
	EndTime    int                `json:"end_time"`
	Guests     int                `json:"guests"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewBookingMessage はイベントの現在の状態から通知メッセージを作成する
func NewBookingMessage(t BookingMessageType, e *Event, at time.Time) (BookingMessage, error) {
	date, err := e.DateKey()
	if err != nil {
		return BookingMessage{}, err
	}
	return BookingMessage{
		Type:       t,
		EventID:    e.ID,
		UserID:     e.UserID,
		VenueID:    e.VenueID,
		Date:       date,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Guests:     e.Guests,
		OccurredAt: at,
	}, nil
}
