package models

import "time"

// Verification is the durable record of the first accepted scan of a
// ticket. At most one exists per booking, ever; the verifications table
// enforces that with a unique key on booking_id.
type Verification struct {
	ID        int64
	BookingID string
	ScannedBy string
	ScannedAt time.Time
	Location  string
}
