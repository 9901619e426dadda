package services

import (
	"fmt"

	"busline/internal/utils"
)

// Notification is the payload handed to the delivery collaborator.
type Notification struct {
	UserID    string `json:"userId"`
	BookingID string `json:"bookingId"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
	Reason    string `json:"reason,omitempty"`
}

// Notifier is the fire-and-forget delivery port. Implementations may push,
// SMS or email; a failure must never fail the transition that triggered it.
type Notifier interface {
	PaymentConfirmed(n Notification) error
	PaymentFailed(n Notification) error
}

// LogNotifier is the default delivery backend: it only logs. Real transports
// plug in behind the same interface.
type LogNotifier struct {
	RequestID string
}

func (l LogNotifier) PaymentConfirmed(n Notification) error {
	utils.LogEvent(l.RequestID, "notify", "payment_confirmed",
		fmt.Sprintf("user_id=%s booking_id=%s amount=%d method=%s", n.UserID, n.BookingID, n.Amount, n.Method))
	return nil
}

func (l LogNotifier) PaymentFailed(n Notification) error {
	utils.LogEvent(l.RequestID, "notify", "payment_failed",
		fmt.Sprintf("user_id=%s booking_id=%s reason=%s", n.UserID, n.BookingID, n.Reason))
	return nil
}
