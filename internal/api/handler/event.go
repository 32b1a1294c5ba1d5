package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRequest は予約の作成・更新リクエスト
// 0 も値として受け付けるため、欠落はポインタの nil で判定する
type EventRequest struct {
	UserID    *int64 `json:"userId" validate:"required" example:"1"`
	VenueID   *int64 `json:"venueId" validate:"required" example:"1"`
	Day       *int   `json:"day" validate:"required" example:"5"`
	Month     *int   `json:"month" validate:"required" example:"1"`
	Year      *int   `json:"year" validate:"required" example:"2030"`
	StartTime *int   `json:"startTime" validate:"required" example:"15"`
	EndTime   *int   `json:"endTime" validate:"required" example:"18"`
	Guests    *int   `json:"guests" validate:"required" example:"50"`
}

// CancelEventRequest はキャンセルリクエスト
type CancelEventRequest struct {
	UserID *int64 `json:"userId" validate:"required" example:"1"`
}

type EventResponse struct {
	ID          int64 `json:"id" example:"1"`
	UserID      int64 `json:"userId" example:"1"`
	VenueID     int64 `json:"venueId" example:"1"`
	Day         int   `json:"day" example:"5"`
	Month       int   `json:"month" example:"1"`
	Year        int   `json:"year" example:"2030"`
	StartTime   int   `json:"startTime" example:"15"`
	EndTime     int   `json:"endTime" example:"18"`
	Guests      int   `json:"guests" example:"50"`
	IsCancelled bool  `json:"isCancelled" example:"false"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		VenueID:     e.VenueID,
		Day:         e.Day,
		Month:       e.Month,
		Year:        e.Year,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Guests:      e.Guests,
		IsCancelled: e.IsCancelled,
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return responses
}

// Create godoc
// @Summary 会場を予約
// @Description 空き状況と収容人数を確認してから予約を作成します
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "予約情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := authorize(c, *req.UserID); err != nil {
		return err
	}

	e, err := h.eventService.BookEvent(c.Request().Context(), application.CreateEventInput{
		UserID:    *req.UserID,
		VenueID:   *req.VenueID,
		Day:       *req.Day,
		Month:     *req.Month,
		Year:      *req.Year,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Guests:    *req.Guests,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary 予約一覧を取得
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListByVenue godoc
// @Summary 会場の予約一覧を取得
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "会場ID"
// @Success 200 {array} EventResponse
// @Router /events/venue/{id} [get]
func (h *EventHandler) ListByVenue(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	events, err := h.eventService.ListVenueEvents(c.Request().Context(), venueID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListByUser godoc
// @Summary ユーザーの予約一覧を取得
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "ユーザーID"
// @Success 200 {array} EventResponse
// @Router /events/user/{id} [get]
func (h *EventHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	events, err := h.eventService.ListUserEvents(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListActive godoc
// @Summary 開催前の予約一覧を取得
// @Description キャンセルされておらず、まだ開始していない予約を返します
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EventResponse
// @Router /events/active [get]
func (h *EventHandler) ListActive(c echo.Context) error {
	events, err := h.eventService.ListActiveEvents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Update godoc
// @Summary 予約を変更
// @Description 所有者のみ変更できます。新しい枠で空き状況と収容人数を再確認します
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "イベントID"
// @Param request body EventRequest true "予約情報"
// @Success 200 {object} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := authorize(c, *req.UserID); err != nil {
		return err
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID:        id,
		UserID:    *req.UserID,
		VenueID:   *req.VenueID,
		Day:       *req.Day,
		Month:     *req.Month,
		Year:      *req.Year,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Guests:    *req.Guests,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 所有者のみキャンセルできます。キャンセル済みでもそのまま返します
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "イベントID"
// @Param request body CancelEventRequest true "ユーザー情報"
// @Success 200 {object} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/cancel [patch]
func (h *EventHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CancelEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := authorize(c, *req.UserID); err != nil {
		return err
	}

	e, err := h.eventService.CancelEvent(c.Request().Context(), id, *req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}
