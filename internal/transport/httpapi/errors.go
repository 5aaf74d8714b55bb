package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// apiError is returned by handlers and rendered by errorHandler.
type apiError struct {
	Status int
	Body   ErrorResponse
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Body.Error, e.Body.Message)
}

func newAPIError(status int, code, message string, details map[string]interface{}) *apiError {
	return &apiError{Status: status, Body: ErrorResponse{Error: code, Message: message, Details: details}}
}

func scoreNotFound(id string) *apiError {
	return newAPIError(http.StatusNotFound, "ScoreNotFound",
		fmt.Sprintf("Score '%s' not found", id),
		map[string]interface{}{"score_id": id})
}

// failureStatus maps a failure category to an HTTP status. notFoundStatus
// lets routes where the caller picks the id answer 404, while fixed per-score
// routes and calculators that fail to build are server faults.
func failureStatus(category score.FailureCategory, notFoundStatus int) int {
	switch category {
	case score.CategoryInvalidParameters:
		return http.StatusUnprocessableEntity
	case score.CategoryNotFound:
		return notFoundStatus
	default:
		return http.StatusInternalServerError
	}
}

// fromFailure builds the response for an error returned by the registry.
func fromFailure(err error, notFoundStatus int) *apiError {
	failure, ok := score.AsFailure(err)
	if !ok {
		return newAPIError(http.StatusInternalServerError, "InternalServerError", "An unexpected error occurred", nil)
	}

	details := map[string]interface{}{"score_id": string(failure.ScoreID)}
	if bindErr, ok := plugin.AsBindingError(failure); ok {
		if len(bindErr.Missing) > 0 {
			details["missing"] = bindErr.Missing
		}
		if len(bindErr.Unexpected) > 0 {
			details["unexpected"] = bindErr.Unexpected
		}
	}
	if valueErr, ok := plugin.AsValueError(failure); ok && valueErr.Field != "" {
		details["field"] = valueErr.Field
	}

	// A registered calculator that cannot be built is a server fault on
	// every route; only an id nobody registered is the caller's mistake.
	var malformed *plugin.MalformedPluginError
	if failure.Category == score.CategoryNotFound && errors.As(failure, &malformed) && malformed != nil {
		notFoundStatus = http.StatusInternalServerError
	}

	code := failure.Category.String()
	if failure.Category == score.CategoryNotFound {
		code = "ScoreNotFound"
		if notFoundStatus >= http.StatusInternalServerError {
			code = "InternalServerError"
		}
	}
	return newAPIError(failureStatus(failure.Category, notFoundStatus), code, failure.Message, details)
}

// errorHandler renders apiError, echo.HTTPError and anything else as an
// ErrorResponse.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *apiError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = newAPIError(httpErr.Code, statusCode(httpErr.Code), fmt.Sprint(httpErr.Message), nil)
	default:
		apiErr = newAPIError(http.StatusInternalServerError, "InternalServerError", "An unexpected error occurred", nil)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	_ = c.JSON(apiErr.Status, apiErr.Body)
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusMethodNotAllowed:
		return "MethodNotAllowed"
	case http.StatusRequestEntityTooLarge:
		return "PayloadTooLarge"
	case http.StatusUnsupportedMediaType:
		return "UnsupportedMediaType"
	case http.StatusServiceUnavailable:
		return "ServiceUnavailable"
	default:
		if status >= http.StatusInternalServerError {
			return "InternalServerError"
		}
		return http.StatusText(status)
	}
}
