package middleware // middleware provides shared request processing for handlers

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/mintgate/merchant-gateway/internal/auth"
    "github.com/mintgate/merchant-gateway/internal/model"
    "github.com/mintgate/merchant-gateway/internal/repository"
)

// principalKey is the echo context key under which the resolved principal
// is stored for downstream handlers and guards.
const principalKey = "principal"

// GetPrincipal returns the principal attached by Authenticate, if any.
func GetPrincipal(c echo.Context) (model.Principal, bool) {
    p, ok := c.Get(principalKey).(model.Principal)
    return p, ok
}

// SetPrincipal attaches a principal to the context. Exposed for tests that
// exercise guards and handlers without running the full middleware chain.
func SetPrincipal(c echo.Context, p model.Principal) {
    c.Set(principalKey, p)
}

// Authenticate validates the bearer credential and attaches the resolved
// principal to the request context.
//
// The credential is read from the accessToken cookie first, then from the
// Authorization header. All decode failures collapse into a generic 401;
// expiry alone is reported with a distinct message so clients can decide
// between re-login and refresh. The subject id is resolved through the
// role-hinted store first and then the fixed fallback order, so tokens
// minted by older issuance paths (no role claim) keep working.
func Authenticate(issuer *auth.Issuer, stores auth.Stores) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := credentialFrom(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Unauthorized request"})
            }

            id, role, err := issuer.VerifyAccess(raw)
            if err != nil {
                if errors.Is(err, auth.ErrTokenExpired) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Access token expired"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid access token"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            p, err := stores.FindPrincipal(ctx, id, hintFromRole(role))
            if err != nil {
                if errors.Is(err, repository.ErrNotFound) {
                    // Token for a principal that no longer exists.
                    return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid access token"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Something went wrong"})
            }

            SetPrincipal(c, p)
            return next(c)
        }
    }
}

// credentialFrom extracts the token, cookie taking precedence over the
// Authorization header.
func credentialFrom(c echo.Context) string {
    if ck, err := c.Cookie("accessToken"); err == nil && ck.Value != "" {
        return ck.Value
    }
    if h := c.Request().Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
    }
    return ""
}

// hintFromRole maps a token role claim to a principal kind. Admin role
// labels other than the literal "admin" (e.g. "superadmin") yield no hint
// and take the fallback probe, which still finds the admin record.
func hintFromRole(role string) string {
    switch role {
    case model.KindMerchant, model.KindAdmin, model.KindUser:
        return role
    }
    return ""
}
