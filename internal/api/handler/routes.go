package handler

import "github.com/labstack/echo/v4"

// Routes はルーティングに登録するハンドラーとミドルウェア
type Routes struct {
	Health *HealthHandler
	Auth   *AuthHandler
	Venue  *VenueHandler
	Event  *EventHandler

	// RequireAuth はトークンを検証するミドルウェア
	RequireAuth echo.MiddlewareFunc
	// AuthRateLimit は登録・ログインに掛けるレート制限。nil なら制限しない
	AuthRateLimit echo.MiddlewareFunc
}

// RegisterRoutes はAPIのルートを登録する
func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Check)

	v1 := e.Group("/api/v1")

	var authMiddleware []echo.MiddlewareFunc
	if r.AuthRateLimit != nil {
		authMiddleware = append(authMiddleware, r.AuthRateLimit)
	}
	auth := v1.Group("/auth", authMiddleware...)
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)

	venues := v1.Group("/venues")
	venues.GET("", r.Venue.List)
	venues.GET("/:id", r.Venue.GetByID)
	venues.POST("", r.Venue.Create, r.RequireAuth)
	venues.PATCH("/:id", r.Venue.Update, r.RequireAuth)

	events := v1.Group("/events", r.RequireAuth)
	events.POST("", r.Event.Create)
	events.GET("", r.Event.List)
	events.GET("/active", r.Event.ListActive)
	events.GET("/venue/:id", r.Event.ListByVenue)
	events.GET("/user/:id", r.Event.ListByUser)
	events.GET("/:id", r.Event.GetByID)
	events.PUT("/:id", r.Event.Update)
	events.PATCH("/:id/cancel", r.Event.Cancel)
}
