package models

import "time"

// Booking statuses. Transitions are monotonic: once CANCELLED or COMPLETED
// a booking never moves again.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

type Booking struct {
	ID            string
	UserID        string
	RouteID       string
	SeatNumber    string
	TravelDate    string // YYYY-MM-DD
	TotalAmount   int64
	Status        string
	TicketPayload string // serialized TicketPayload, empty until issued
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TicketEligible reports whether a ticket for this booking may be honored
// at the gate.
func (b Booking) TicketEligible() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
