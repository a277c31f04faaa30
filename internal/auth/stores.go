// Package auth implements the core identity logic: the token issuer, the
// principal lookup used by the auth middleware, and the dual-identifier
// resolver behind the public merchant route.
package auth

import (
	"context"
	"errors"

	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/repository"
)

// MerchantStore is the merchant persistence surface the auth layer needs.
// *repository.MerchantRepo satisfies it; tests substitute in-memory fakes.
type MerchantStore interface {
	GetByID(ctx context.Context, id string) (*model.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*model.Merchant, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// AdminStore is the admin persistence surface. Create exists for the static
// admin bootstrap on first login.
type AdminStore interface {
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// UserStore is the end-user persistence surface.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// UIDStore resolves public UID codes.
type UIDStore interface {
	GetByCode(ctx context.Context, code string) (*model.PublicUID, error)
}

// Stores bundles the three principal stores plus the UID store. The fixed
// probe order (merchant, admin, user) lives here so every caller resolves
// tokens the same way.
type Stores struct {
	Merchants MerchantStore
	Admins    AdminStore
	Users     UserStore
	UIDs      UIDStore
}

// FindPrincipal resolves a principal id to a record. When hint names a
// known kind, that store is tried first; a hinted miss (stale token whose
// principal was deleted, or a role mismatch) falls back to probing all
// three stores in order. Tokens without a usable hint take the fallback
// path directly, which keeps older issuance formats working.
func (s Stores) FindPrincipal(ctx context.Context, id, hint string) (model.Principal, error) {
	switch hint {
	case model.KindMerchant:
		if m, err := s.Merchants.GetByID(ctx, id); err == nil {
			return model.MerchantPrincipal(m), nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return model.Principal{}, err
		}
	case model.KindAdmin:
		if a, err := s.Admins.GetByID(ctx, id); err == nil {
			return model.AdminPrincipal(a), nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return model.Principal{}, err
		}
	case model.KindUser:
		if u, err := s.Users.GetByID(ctx, id); err == nil {
			return model.UserPrincipal(u), nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return model.Principal{}, err
		}
	}

	if m, err := s.Merchants.GetByID(ctx, id); err == nil {
		return model.MerchantPrincipal(m), nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Principal{}, err
	}
	if a, err := s.Admins.GetByID(ctx, id); err == nil {
		return model.AdminPrincipal(a), nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Principal{}, err
	}
	if u, err := s.Users.GetByID(ctx, id); err == nil {
		return model.UserPrincipal(u), nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Principal{}, err
	}
	return model.Principal{}, repository.ErrNotFound
}

// SetRefreshToken persists the refresh token onto the right principal row.
func (s Stores) SetRefreshToken(ctx context.Context, p model.Principal, token string) error {
	switch p.Kind {
	case model.KindMerchant:
		return s.Merchants.SetRefreshToken(ctx, p.ID(), token)
	case model.KindAdmin:
		return s.Admins.SetRefreshToken(ctx, p.ID(), token)
	case model.KindUser:
		return s.Users.SetRefreshToken(ctx, p.ID(), token)
	}
	return errors.New("unknown principal kind")
}

// ClearRefreshToken drops the persisted refresh token for the principal.
func (s Stores) ClearRefreshToken(ctx context.Context, p model.Principal) error {
	switch p.Kind {
	case model.KindMerchant:
		return s.Merchants.ClearRefreshToken(ctx, p.ID())
	case model.KindAdmin:
		return s.Admins.ClearRefreshToken(ctx, p.ID())
	case model.KindUser:
		return s.Users.ClearRefreshToken(ctx, p.ID())
	}
	return errors.New("unknown principal kind")
}
