package model

// Principal is the tagged union of the three authenticated identity kinds.
// Exactly one of Merchant, Admin or User is non-nil, matching Kind. Handlers
// and middleware pass a Principal around instead of three parallel values so
// that role checks and token issuance work over a single type.
type Principal struct {
	Kind     string // one of KindMerchant, KindAdmin, KindUser
	Merchant *Merchant
	Admin    *Admin
	User     *User
}

// Principal kinds. These values double as the "role" hint embedded in
// access-token claims (admins may carry a more specific label such as
// "superadmin" instead).
const (
	KindMerchant = "merchant"
	KindAdmin    = "admin"
	KindUser     = "user"
)

// MerchantPrincipal wraps a merchant record.
func MerchantPrincipal(m *Merchant) Principal {
	return Principal{Kind: KindMerchant, Merchant: m}
}

// AdminPrincipal wraps an admin record.
func AdminPrincipal(a *Admin) Principal {
	return Principal{Kind: KindAdmin, Admin: a}
}

// UserPrincipal wraps an end-user record.
func UserPrincipal(u *User) Principal {
	return Principal{Kind: KindUser, User: u}
}

// ID returns the durable 24-hex identifier of the wrapped record.
func (p Principal) ID() string {
	switch p.Kind {
	case KindMerchant:
		return p.Merchant.ID
	case KindAdmin:
		return p.Admin.ID
	case KindUser:
		return p.User.ID
	}
	return ""
}

// Role returns the role tag placed into access-token claims. Admins report
// their stored role label (e.g. "superadmin") so that it round-trips through
// the token; merchants and users always report their kind.
func (p Principal) Role() string {
	switch p.Kind {
	case KindMerchant:
		return KindMerchant
	case KindAdmin:
		if p.Admin.Role != "" {
			return p.Admin.Role
		}
		return KindAdmin
	case KindUser:
		return KindUser
	}
	return ""
}

// Email returns the principal's email address.
func (p Principal) Email() string {
	switch p.Kind {
	case KindMerchant:
		return p.Merchant.Email
	case KindAdmin:
		return p.Admin.Email
	case KindUser:
		return p.User.Email
	}
	return ""
}

// Name returns the identity-display name embedded in access tokens.
func (p Principal) Name() string {
	switch p.Kind {
	case KindMerchant:
		return p.Merchant.Name
	case KindAdmin:
		return p.Admin.Name
	case KindUser:
		return p.User.Username
	}
	return ""
}

// RefreshToken returns the currently persisted refresh token, or "" when
// the principal has no active session.
func (p Principal) RefreshToken() string {
	switch p.Kind {
	case KindMerchant:
		return p.Merchant.RefreshToken
	case KindAdmin:
		return p.Admin.RefreshToken
	case KindUser:
		return p.User.RefreshToken
	}
	return ""
}
