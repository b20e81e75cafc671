package server

import (
	"errors"
	"net/http"

	analyticsdomain "github.com/fizzlog/fizzlog/internal/analytics/domain"
	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var ErrInvalidRequest = errors.New("invalid_request")

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware turns errors collected on the gin context
// into a JSON error response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    err.Error(),
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Code:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, cylinderdomain.ErrInvalidNumber),
		errors.Is(err, cylinderdomain.ErrInvalidCost),
		errors.Is(err, cylinderdomain.ErrInvalidMaxPushes),
		errors.Is(err, consumptiondomain.ErrInvalidDate),
		errors.Is(err, consumptiondomain.ErrInvalidBottleSize),
		errors.Is(err, consumptiondomain.ErrInvalidBottleCount),
		errors.Is(err, consumptiondomain.ErrInvalidPushes),
		errors.Is(err, settingsdomain.ErrInvalidKey),
		errors.Is(err, settingsdomain.ErrInvalidValue),
		errors.Is(err, analyticsdomain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, cylinderdomain.ErrNotFound),
		errors.Is(err, consumptiondomain.ErrNotFound),
		errors.Is(err, settingsdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, cylinderdomain.ErrDuplicateNumber),
		errors.Is(err, cylinderdomain.ErrHasLogs):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels an error for the request log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	return payload.Type, payload.Code
}
