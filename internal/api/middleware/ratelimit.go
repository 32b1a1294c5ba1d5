package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

// RateLimit はクライアントIPごとに1分あたりのリクエスト数を制限する
func RateLimit(perMinute int64) echo.MiddlewareFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}
	return RateLimitWithLimiter(limiter.New(store, rate))
}

// RateLimitWithLimiter は既存の limiter インスタンスで制限する
func RateLimitWithLimiter(instance *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lctx, err := instance.Get(c.Request().Context(), c.RealIP())
			if err != nil {
				// ストアの障害ではリクエストを止めない
				logger.Warn("レート制限の確認に失敗しました", zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				return echo.NewHTTPError(http.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再試行してください")
			}
			return next(c)
		}
	}
}
