package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// setupWorkspaceContext injects an authenticated workspace into the request
// context, mimicking what the auth middleware does after JWT validation.
func setupWorkspaceContext(c echo.Context, workspaceID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.Auth0IDKey, "auth0|test")
	ctx = context.WithValue(ctx, middleware.WorkspaceIDKey, workspaceID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
