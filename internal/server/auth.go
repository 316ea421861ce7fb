package server

import (
	"strings"

	"github.com/labstack/echo/v4"

	"aibridge/internal/core"
)

// AuthMiddleware creates an Echo middleware that validates the master key.
// If masterKey is empty, no authentication is required. Paths in skipPaths
// bypass the check; a trailing slash marks a prefix match so the backend
// can fetch /files/{id} without credentials.
func AuthMiddleware(masterKey string, skipPaths []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if masterKey == "" {
				return next(c)
			}

			path := c.Request().URL.Path
			for _, skip := range skipPaths {
				if path == skip || (strings.HasSuffix(skip, "/") && strings.HasPrefix(path, skip)) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handleError(c, core.NewAuthenticationError("missing authorization header"))
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(authHeader, prefix) {
				return handleError(c, core.NewAuthenticationError("invalid authorization header format, expected 'Bearer <token>'"))
			}

			if strings.TrimPrefix(authHeader, prefix) != masterKey {
				return handleError(c, core.NewAuthenticationError("invalid master key"))
			}

			return next(c)
		}
	}
}
