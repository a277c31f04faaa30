package model

import "time"

// CounterUIDSeq is the fixed counter row name shared by all UID issuance.
const CounterUIDSeq = "uid_seq"

// PublicUID is an 8-char human-shareable alias resolving to the merchant
// that created it. Codes are globally unique; Seq comes from the shared
// uid_seq counter and is strictly increasing across all merchants.
type PublicUID struct {
	Seq       uint64    // uids.seq
	Code      string    // uids.code ([A-Z0-9]{8})
	CreatedBy string    // uids.created_by -> merchants.id
	CreatedAt time.Time // uids.created_at
	UpdatedAt time.Time // uids.updated_at
}
