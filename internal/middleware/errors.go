package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails represents an RFC 7807 Problem Details response.
// RetryAfter is an extension member carried only on rate-limit problems.
type problemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail,omitempty"`
	Instance   string `json:"instance,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Error types
const (
	errorTypeUnauthorized = "https://ledgera.app/errors/unauthorized"
	errorTypeRateLimit    = "https://ledgera.app/errors/rate-limit"
)

// unauthorizedError creates an unauthorized error response
func unauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, problemDetails{
		Type:     errorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// rateLimitError creates a rate-limit-exceeded error response
func rateLimitError(c echo.Context, detail string, retryAfter int) error {
	return c.JSON(http.StatusTooManyRequests, problemDetails{
		Type:       errorTypeRateLimit,
		Title:      "Rate Limit Exceeded",
		Status:     http.StatusTooManyRequests,
		Detail:     detail,
		Instance:   c.Request().URL.Path,
		RetryAfter: retryAfter,
	})
}
