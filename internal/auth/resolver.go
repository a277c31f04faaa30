package auth

import (
	"context"
	"errors"
	"regexp"

	"github.com/mintgate/merchant-gateway/internal/model"
	"github.com/mintgate/merchant-gateway/internal/repository"
)

var (
	objectIDPattern = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)
	uidCodePattern  = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

// IsObjectID reports whether s is a 24-char hex primary-key identifier.
func IsObjectID(s string) bool { return objectIDPattern.MatchString(s) }

// IsUIDCode reports whether s is an 8-char uppercase-alphanumeric UID code.
func IsUIDCode(s string) bool { return uidCodePattern.MatchString(s) }

// Resolver maps a path identifier to a merchant. Identifiers come in two
// shapes: the merchant's own 24-hex primary key, or an 8-char public UID
// that points at the merchant which created it.
type Resolver struct {
	Merchants MerchantStore
	UIDs      UIDStore
}

// Resolve classifies the identifier and looks up the merchant. It is
// read-only and returns repository.ErrNotFound for unknown shapes, missing
// UID records and dangling UIDs whose creator merchant no longer exists.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*model.Merchant, error) {
	switch {
	case IsObjectID(identifier):
		return r.Merchants.GetByID(ctx, identifier)
	case IsUIDCode(identifier):
		uid, err := r.UIDs.GetByCode(ctx, identifier)
		if err != nil {
			return nil, err
		}
		m, err := r.Merchants.GetByID(ctx, uid.CreatedBy)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if m == nil {
			// Dangling UID: the merchant behind it was deleted.
			return nil, repository.ErrNotFound
		}
		return m, nil
	}
	return nil, repository.ErrNotFound
}
