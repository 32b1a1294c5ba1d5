package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/user"
)

// userIDKey はコンテキストに認証済みユーザーIDを保存するキー
const userIDKey = "user_id"

// TokenParser はアクセストークンを検証する
type TokenParser interface {
	ParseToken(tokenString string) (*application.TokenClaims, error)
}

// JWTAuth は Authorization ヘッダーのトークンを検証し、ユーザーIDをコンテキストに保存する
// "Bearer " が付いていなければヘッダー全体をトークンとして扱う
func JWTAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				return user.ErrInvalidToken
			}

			claims, err := parser.ParseToken(token)
			if err != nil {
				return err
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserIDFrom は JWTAuth が保存したユーザーIDを取り出す
func UserIDFrom(c echo.Context) (int64, bool) {
	id, ok := c.Get(userIDKey).(int64)
	return id, ok
}
