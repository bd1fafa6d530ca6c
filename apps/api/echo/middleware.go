package echoapi

import (
	"github.com/labstack/echo/v4"
)

// superAdminMiddleware lets through tokens issued to super admins only.
func superAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.IsSuperAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
