package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/mintgate/merchant-gateway/internal/model"
)

// RequireMerchant rejects requests whose resolved principal is not a
// merchant. It assumes Authenticate ran earlier in the chain; an absent
// principal is treated the same as a wrong kind (403, not 401 — the
// credential itself was fine).
func RequireMerchant(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        if p, ok := GetPrincipal(c); !ok || p.Kind != model.KindMerchant {
            return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Forbidden"})
        }
        return next(c)
    }
}

// RequireAdmin rejects requests whose resolved principal is not an admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        if p, ok := GetPrincipal(c); !ok || p.Kind != model.KindAdmin {
            return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Forbidden: Admin access required"})
        }
        return next(c)
    }
}
