package models

import "encoding/json"

const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

type Payment struct {
	ID            string
	BookingID     string
	Method        string
	Status        string
	ReferenceCode string
	// Metadata is the audit trail of manual processing: actor, timestamp,
	// notes, rejection reason.
	Metadata json.RawMessage
}

// PaymentAudit is what gets appended to Metadata on confirm/reject.
type PaymentAudit struct {
	Actor string `json:"actor"`
	At    string `json:"at"`
	Notes string `json:"notes,omitempty"`
}
