package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
	applydomain "github.com/smallbiznis/specto/internal/apply/domain"
	creditsdomain "github.com/smallbiznis/specto/internal/credits/domain"
	generationdomain "github.com/smallbiznis/specto/internal/generation/domain"
	commercedomain "github.com/smallbiznis/specto/internal/providers/commerce/domain"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
	usagedomain "github.com/smallbiznis/specto/internal/usage/domain"
	"github.com/smallbiznis/specto/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

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
		c.Header("Content-Type", "application/json")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var insufficient *creditsdomain.ErrInsufficientCredits
	if errors.As(err, &insufficient) {
		return http.StatusForbidden, errorPayload{
			Type:    "insufficient_credits",
			Message: "insufficient credits",
			Details: map[string]any{
				"required":  insufficient.Required,
				"available": insufficient.Available,
			},
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "request",
					Code:    err.Error(),
					Message: "invalid value",
				},
			},
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case db.IsDuplicateKeyErr(err):
		// A write raced another on a unique index. The row exists, so
		// answer conflict rather than masking it as a server fault.
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "resource already exists",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, generationdomain.ErrNoItems),
		errors.Is(err, applydomain.ErrNoItems),
		errors.Is(err, alttextdomain.ErrInvalidKey),
		errors.Is(err, alttextdomain.ErrEmptyAltText),
		errors.Is(err, storedomain.ErrInvalidSiteID),
		errors.Is(err, storedomain.ErrInvalidStoreID),
		errors.Is(err, creditsdomain.ErrInvalidStore),
		errors.Is(err, creditsdomain.ErrInvalidAmount),
		errors.Is(err, usagedomain.ErrInvalidStore),
		errors.Is(err, usagedomain.ErrInvalidAction):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, storedomain.ErrNotFound),
		errors.Is(err, alttextdomain.ErrNotFound),
		errors.Is(err, commercedomain.ErrProductNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
