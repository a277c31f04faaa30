package model

import "time"

// PaymentProvider is a row in the `payment_providers` table. The default
// provider set is seeded at startup; merchants reference providers through
// the merchant_payment_providers join table.
type PaymentProvider struct {
	ID        string    // payment_providers.id (24-hex)
	Name      string    // payment_providers.name
	IsActive  bool      // payment_providers.is_active
	CreatedAt time.Time // payment_providers.created_at
	UpdatedAt time.Time // payment_providers.updated_at
}

// DefaultProviderNames is the provider catalogue seeded on startup when
// missing. All are created inactive.
var DefaultProviderNames = []string{
	"wert", "nftpay", "moonpay", "crossmint", "alchemypay",
	"dropchain", "withpaper", "securecheckout", "transak", "thirdweb",
}
