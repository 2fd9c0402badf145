package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// NewErrorHandler renders every error returned by a route as an ErrorResponse.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "http")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, kind, message := classify(err)
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Code: code, Error: kind, Message: message})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}

func classify(err error) (int, string, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, kindForStatus(he.Code), fmt.Sprint(he.Message)
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", ErrUnauthorized.Error()
	case errors.Is(err, services.ErrNoCourierAvailable):
		return http.StatusConflict, "no_courier_available", err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid_transition", err.Error()
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, errs.ErrUpstreamFailure):
		return http.StatusServiceUnavailable, "upstream_failure", "storage is unavailable"
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest, "invalid_request", err.Error()
	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		if code >= http.StatusInternalServerError {
			return "internal"
		}
		return "http_error"
	}
}
