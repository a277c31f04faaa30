package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mintgate/merchant-gateway/internal/auth"
	"github.com/mintgate/merchant-gateway/internal/config"
	"github.com/mintgate/merchant-gateway/internal/middleware"
	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/repository"
	"github.com/mintgate/merchant-gateway/internal/utils"
)

// AuthHandler bundles dependencies for the login, refresh and logout
// endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Issuer *auth.Issuer
	Stores auth.Stores
}

func NewAuthHandler(cfg config.Config, issuer *auth.Issuer, stores auth.Stores) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Issuer: issuer, Stores: stores}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type adminSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type merchantSummary struct {
	ID       string `json:"id"`
	UniqueID string `json:"unique_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Wallet   string `json:"wallet"`
}

// Login authenticates one of the three principal kinds by email (or
// username for end users) and returns a token pair. The probe order is:
// static admin bootstrap, end user, merchant, database admin. The first
// login with the configured static admin credentials creates the admin
// record on the fly.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" && req.Username == "" {
		return fail(c, http.StatusBadRequest, "username or email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.Email != "" && req.Email == strings.ToLower(h.Cfg.AdminEmail) {
		return h.loginStaticAdmin(c, ctx, req.Password)
	}

	// End user: email or username.
	if u, err := h.Stores.Users.GetByEmailOrUsername(ctx, req.Email, req.Username); err == nil {
		if !utils.VerifyPassword(u.PasswordHash, req.Password) {
			return fail(c, http.StatusUnauthorized, "Invalid user credentials")
		}
		return h.finishLogin(c, ctx, model.UserPrincipal(u),
			echo.Map{"user": userSummary{ID: u.ID, Username: u.Username, Email: u.Email}},
			model.KindUser, "User logged In Successfully")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	// Merchant.
	if m, err := h.Stores.Merchants.GetByEmail(ctx, req.Email); err == nil {
		if !utils.VerifyPassword(m.PasswordHash, req.Password) {
			return fail(c, http.StatusUnauthorized, "Invalid merchant credentials")
		}
		return h.finishLogin(c, ctx, model.MerchantPrincipal(m),
			echo.Map{"merchant": merchantSummary{ID: m.ID, UniqueID: m.UniqueID, Name: m.Name, Email: m.Email, Wallet: m.Wallet}},
			model.KindMerchant, "Merchant logged In Successfully")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	// Database admin.
	if a, err := h.Stores.Admins.GetByEmail(ctx, req.Email); err == nil {
		if !utils.VerifyPassword(a.PasswordHash, req.Password) {
			return fail(c, http.StatusUnauthorized, "Invalid admin credentials")
		}
		return h.finishLogin(c, ctx, model.AdminPrincipal(a),
			echo.Map{"admin": adminSummary{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}},
			model.KindAdmin, "Admin logged In Successfully")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	return fail(c, http.StatusNotFound, "User does not exist")
}

// loginStaticAdmin handles the bootstrap admin account. The record is
// created lazily on first successful login with the configured password.
func (h *AuthHandler) loginStaticAdmin(c echo.Context, ctx context.Context, password string) error {
	if password != h.Cfg.AdminPassword {
		return fail(c, http.StatusUnauthorized, "Invalid admin credentials")
	}
	a, err := h.Stores.Admins.GetByEmail(ctx, h.Cfg.AdminEmail)
	if errors.Is(err, repository.ErrNotFound) {
		hash, herr := utils.HashPassword(h.Cfg.AdminPassword, h.Cfg.BcryptCost)
		if herr != nil {
			return fail(c, http.StatusInternalServerError, "Something went wrong")
		}
		a = &model.Admin{
			ID:           model.NewID(),
			Name:         "System Administrator",
			Email:        strings.ToLower(h.Cfg.AdminEmail),
			PasswordHash: hash,
			Role:         "superadmin",
		}
		if err := h.Stores.Admins.Create(ctx, a); err != nil {
			return fail(c, http.StatusInternalServerError, "Something went wrong")
		}
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return h.finishLogin(c, ctx, model.AdminPrincipal(a),
		echo.Map{"admin": adminSummary{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}},
		model.KindAdmin, "Admin logged In Successfully")
}

// finishLogin issues the token pair, sets the auth cookies and writes the
// login response. summary carries the principal-kind-specific payload.
func (h *AuthHandler) finishLogin(c echo.Context, ctx context.Context, p model.Principal, summary echo.Map, userType, msg string) error {
	pair, err := h.Issuer.Issue(ctx, p)
	if err != nil {
		c.Logger().Errorf("issue tokens: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong while generating refresh/access token")
	}
	setAuthCookies(c, pair)

	data := echo.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"userType":     userType,
	}
	for k, v := range summary {
		data[k] = v
	}
	return respond(c, http.StatusOK, data, msg)
}

// Refresh exchanges a valid refresh token (cookie or body) for a new pair.
// The presented token must equal the value currently persisted on the
// principal; anything else is treated as expired or already used.
func (h *AuthHandler) Refresh(c echo.Context) error {
	incoming := ""
	if ck, err := c.Cookie("refreshToken"); err == nil && ck.Value != "" {
		incoming = ck.Value
	}
	if incoming == "" {
		var req refreshReq
		_ = c.Bind(&req)
		incoming = strings.TrimSpace(req.RefreshToken)
	}
	if incoming == "" {
		return fail(c, http.StatusUnauthorized, "unauthorized request")
	}

	id, err := h.Issuer.VerifyRefresh(incoming)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return fail(c, http.StatusUnauthorized, "Refresh token expired")
		}
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Stores.FindPrincipal(ctx, id, "")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid refresh token")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if p.RefreshToken() != incoming {
		return fail(c, http.StatusUnauthorized, "Refresh token is expired or used")
	}

	pair, err := h.Issuer.Issue(ctx, p)
	if err != nil {
		c.Logger().Errorf("issue tokens: %v", err)
		return fail(c, http.StatusInternalServerError, "Something went wrong while generating refresh/access token")
	}
	setAuthCookies(c, pair)
	return respond(c, http.StatusOK, echo.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

// Logout clears the persisted refresh token for the authenticated
// principal and expires both cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized request")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Stores.ClearRefreshToken(ctx, p); err != nil {
		return fail(c, http.StatusInternalServerError, "logout failed")
	}
	clearAuthCookies(c)
	return respond(c, http.StatusOK, echo.Map{}, "User logged Out")
}

func setAuthCookies(c echo.Context, pair auth.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name: "accessToken", Value: pair.AccessToken, Path: "/",
		Expires: pair.AccessExp, HttpOnly: true, Secure: true,
	})
	c.SetCookie(&http.Cookie{
		Name: "refreshToken", Value: pair.RefreshToken, Path: "/",
		Expires: pair.RefreshExp, HttpOnly: true, Secure: true,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name: name, Value: "", Path: "/",
			Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, Secure: true,
		})
	}
}
