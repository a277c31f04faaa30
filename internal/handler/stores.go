package handler

import (
	"context"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// MerchantStore is the merchant persistence surface the CRUD handlers
// need. *repository.MerchantRepo satisfies it.
type MerchantStore interface {
	Create(ctx context.Context, m *model.Merchant) error
	GetByID(ctx context.Context, id string) (*model.Merchant, error)
	List(ctx context.Context) ([]model.Merchant, error)
	Update(ctx context.Context, m *model.Merchant) error
	SetProviders(ctx context.Context, merchantID string, providerIDs []string) error
	Delete(ctx context.Context, id string) error
	UniqueIDExists(ctx context.Context, code string) (bool, error)
}

// ProviderStore exposes the payment-provider catalogue.
type ProviderStore interface {
	List(ctx context.Context) ([]model.PaymentProvider, error)
	GetByID(ctx context.Context, id string) (*model.PaymentProvider, error)
}

// UIDStore is the persistence surface for public UID issuance.
type UIDStore interface {
	NextSeq(ctx context.Context) (uint64, error)
	Create(ctx context.Context, u *model.PublicUID) error
	ListByCreator(ctx context.Context, merchantID string) ([]model.PublicUID, error)
}

// EventPublisher emits domain events to the message broker. Publish
// failures are logged by callers and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
