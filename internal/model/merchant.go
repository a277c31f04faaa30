package model

import "time"

// Merchant represents a row in the `merchants` table. Fee fields are a
// percentage split with the platform: MerchantFee + AdminFee is kept at 100
// by the update handler when only one side is supplied. UniqueID is the
// merchant's own shareable 8-char code, distinct from the PublicUID records
// it later generates. RefreshToken holds the single currently valid refresh
// token; an empty string means no active session.
type Merchant struct {
	ID           string    // merchants.id (24-hex)
	UniqueID     string    // merchants.unique_id
	Name         string    // merchants.name
	Email        string    // merchants.email
	Phone        string    // merchants.phone
	PasswordHash string    // merchants.password_hash
	Wallet       string    // merchants.wallet
	MerchantFee  float64   // merchants.merchant_fee
	AdminFee     float64   // merchants.admin_fee
	Status       int       // merchants.status (0 inactive, 1 active)
	APIKey       string    // merchants.api_key
	SecretKey    string    // merchants.secret_key
	RefreshToken string    // merchants.refresh_token
	ProviderIDs  []string  // ids from merchant_payment_providers
	CreatedAt    time.Time // merchants.created_at
	UpdatedAt    time.Time // merchants.updated_at
}
