package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-records-api/internal/adapters/export"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
	"github.com/ogurasousui/employee-records-api/internal/platform/logger"
)

func toHTTPStatus(err error) int {
	switch {
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrNilEmployee),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrDuplicateResource),
		errors.Is(err, employee.ErrAmbiguousResult):
		return http.StatusConflict
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError はエラーを HTTP ステータスと {"message"} ボディに変換します。
// 内部エラーの詳細はログにのみ出力し、レスポンスには含めません。
func respondError(c echo.Context, err error) error {
	status := toHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
		return c.JSON(status, errorResponse{Message: http.StatusText(status)})
	}
	return c.JSON(status, errorResponse{Message: err.Error()})
}
