// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type names double as queue names: each type gets its own durable
// queue and the routing key equals the queue name on the default exchange.
const (
	TypeMerchantUpdated = "merchant.updated"
	TypeUIDGenerated    = "uid.generated"
)

// MerchantUpdatedEvent is published after an admin edits a merchant. It
// carries the fields downstream consumers care about (settlement recomputes
// on fee changes) without requiring a database lookup.
type MerchantUpdatedEvent struct {
	MerchantID  string  `json:"merchant_id"`
	Email       string  `json:"email"`
	MerchantFee float64 `json:"merchant_fee"`
	AdminFee    float64 `json:"admin_fee"`
	UpdatedAt   string  `json:"updated_at"`
}

// UIDGeneratedEvent is published when a merchant mints a new shareable code.
type UIDGeneratedEvent struct {
	Seq        uint64 `json:"seq"`
	Code       string `json:"code"`
	MerchantID string `json:"merchant_id"`
	CreatedAt  string `json:"created_at"`
}
