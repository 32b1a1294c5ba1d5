package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

type VenueHandler struct {
	venueService VenueServiceInterface
}

func NewVenueHandler(venueService VenueServiceInterface) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

type CreateVenueRequest struct {
	UserID     *int64   `json:"userId" validate:"required" example:"1"`
	Name       *string  `json:"name" validate:"required" example:"Town Hall"`
	Address    *string  `json:"address" validate:"required" example:"483 George St"`
	Postcode   *string  `json:"postcode" validate:"required" example:"2000"`
	State      *string  `json:"state" validate:"required" example:"NSW"`
	Capacity   *int     `json:"capacity" validate:"required" example:"300"`
	HourlyRate *float64 `json:"hourlyRate" validate:"required" example:"120.5"`
}

type UpdateVenueRequest struct {
	UserID     *int64   `json:"userId" validate:"required" example:"1"`
	Capacity   *int     `json:"capacity" validate:"required" example:"400"`
	HourlyRate *float64 `json:"hourlyRate" validate:"required" example:"150"`
}

type VenueResponse struct {
	ID         int64   `json:"id" example:"1"`
	Name       string  `json:"name" example:"Town Hall"`
	Address    string  `json:"address" example:"483 George St"`
	Postcode   string  `json:"postcode" example:"2000"`
	State      string  `json:"state" example:"NSW"`
	Capacity   int     `json:"capacity" example:"300"`
	HourlyRate float64 `json:"hourlyRate" example:"120.5"`
}

func toVenueResponse(v *venue.Venue) *VenueResponse {
	return &VenueResponse{
		ID:         v.ID,
		Name:       v.Name,
		Address:    v.Address,
		Postcode:   v.Postcode,
		State:      string(v.State),
		Capacity:   v.Capacity,
		HourlyRate: v.HourlyRate,
	}
}

// Create godoc
// @Summary 会場を登録
// @Description 管理者のみ登録できます
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateVenueRequest true "会場情報"
// @Success 201 {object} VenueResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /venues [post]
func (h *VenueHandler) Create(c echo.Context) error {
	var req CreateVenueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := authorize(c, *req.UserID); err != nil {
		return err
	}

	v, err := h.venueService.CreateVenue(c.Request().Context(), *req.UserID, application.CreateVenueInput{
		Name:       *req.Name,
		Address:    *req.Address,
		Postcode:   *req.Postcode,
		State:      *req.State,
		Capacity:   *req.Capacity,
		HourlyRate: *req.HourlyRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVenueResponse(v))
}

// GetByID godoc
// @Summary 会場を取得
// @Tags venues
// @Produce json
// @Param id path int true "会場ID"
// @Success 200 {object} VenueResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id} [get]
func (h *VenueHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.venueService.GetVenue(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVenueResponse(v))
}

// List godoc
// @Summary 会場一覧を取得
// @Tags venues
// @Produce json
// @Success 200 {array} VenueResponse
// @Router /venues [get]
func (h *VenueHandler) List(c echo.Context) error {
	venues, err := h.venueService.ListVenues(c.Request().Context())
	if err != nil {
		return err
	}
	responses := make([]*VenueResponse, len(venues))
	for i, v := range venues {
		responses[i] = toVenueResponse(v)
	}
	return c.JSON(http.StatusOK, responses)
}

// Update godoc
// @Summary 会場の収容人数と時間単価を変更
// @Description 管理者のみ変更できます
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "会場ID"
// @Param request body UpdateVenueRequest true "変更内容"
// @Success 200 {object} VenueResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id} [patch]
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateVenueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := authorize(c, *req.UserID); err != nil {
		return err
	}

	v, err := h.venueService.UpdateVenue(c.Request().Context(), *req.UserID, application.UpdateVenueInput{
		ID:         id,
		Capacity:   *req.Capacity,
		HourlyRate: *req.HourlyRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVenueResponse(v))
}
