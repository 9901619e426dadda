package services

import (
	"encoding/json"
	"fmt"
	"time"

	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/ticket"
	"busline/internal/utils"
)

// TicketService mints the signed QR payload for a booking and persists it as
// the booking's current ticket artifact.
type TicketService struct {
	BookingRepo repositories.BookingRepository
	TripRepo    repositories.TripRepository
	Signer      ticket.Signer
	// IssueOnPending allows minting before the payment is confirmed
	// ("reserve now, pay at boarding"). Wired from config.
	IssueOnPending bool
	RequestID      string
	Now            func() time.Time
}

func (s TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Issue builds, signs and stores the ticket for a booking. Re-issuing is
// idempotent: the signature is deterministic and the snapshot is recomputed
// from current data, so an unchanged payload is not rewritten.
func (s TicketService) Issue(bookingID string) (models.TicketPayload, error) {
	return s.IssueIn(nil, nil, bookingID)
}

// IssueIn is Issue running against an explicit Queryer/Execer, so a Confirm
// transition can mint inside its own transaction. Nil args use the shared DB.
func (s TicketService) IssueIn(q intdb.Queryer, ex intdb.Execer, bookingID string) (models.TicketPayload, error) {
	b, err := s.BookingRepo.GetByID(q, bookingID)
	if err != nil {
		return models.TicketPayload{}, err
	}

	switch b.Status {
	case models.BookingPending:
		if !s.IssueOnPending {
			return models.TicketPayload{}, domain.IneligibleStateError{Status: b.Status}
		}
	case models.BookingConfirmed:
	default:
		return models.TicketPayload{}, domain.IneligibleStateError{Status: b.Status}
	}

	snap, err := s.TripRepo.SnapshotForBooking(q, bookingID)
	if err != nil {
		return models.TicketPayload{}, err
	}

	payload := models.TicketPayload{
		BookingID:     b.ID,
		PassengerName: snap.PassengerName,
		Route:         snap.RouteFrom + " - " + snap.RouteTo,
		SeatNumber:    b.SeatNumber,
		TravelDate:    b.TravelDate,
		BusPlate:      snap.BusPlate,
		Operator:      snap.OperatorName,
		Amount:        b.TotalAmount,
		GeneratedAt:   s.now().Format(time.RFC3339),
		Signature:     s.Signer.Sign(b.ID, b.UserID),
	}

	// Skip the write when nothing but the issuance timestamp would change;
	// the stored artifact (and its generatedAt) stays authoritative.
	if b.TicketPayload != "" {
		var stored models.TicketPayload
		if err := json.Unmarshal([]byte(b.TicketPayload), &stored); err == nil {
			candidate := payload
			candidate.GeneratedAt = stored.GeneratedAt
			if candidate == stored {
				return stored, nil
			}
		}
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return models.TicketPayload{}, err
	}
	if err := s.BookingRepo.UpdateTicketPayload(ex, b.ID, string(serialized)); err != nil {
		return models.TicketPayload{}, err
	}

	utils.LogEvent(s.RequestID, "ticket", "issue", fmt.Sprintf("booking_id=%s status=%s", b.ID, b.Status))
	return payload, nil
}

// Current returns the booking's stored ticket artifact without re-minting.
func (s TicketService) Current(bookingID string) (models.TicketPayload, error) {
	b, err := s.BookingRepo.GetByID(nil, bookingID)
	if err != nil {
		return models.TicketPayload{}, err
	}
	if b.TicketPayload == "" {
		return models.TicketPayload{}, domain.NotFoundError{Resource: "ticket"}
	}
	var payload models.TicketPayload
	if err := json.Unmarshal([]byte(b.TicketPayload), &payload); err != nil {
		return models.TicketPayload{}, domain.InternalError{Msg: "stored ticket is unreadable", Err: err}
	}
	return payload, nil
}
