package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/api/middleware"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/apperr"
)

var errUnauthorised = apperr.New(apperr.KindUnauthorized, "認証されていません")

// pathID はパスパラメータ name を整数IDとして読む
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "IDの形式が不正です")
	}
	return id, nil
}

// bindAndValidate はリクエストボディを読み込んで検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	return c.Validate(req)
}

// authorize はボディの userId がトークンのユーザーと一致するかを確認する
func authorize(c echo.Context, bodyUserID int64) error {
	tokenUserID, ok := middleware.UserIDFrom(c)
	if !ok || tokenUserID != bodyUserID {
		return errUnauthorised
	}
	return nil
}
