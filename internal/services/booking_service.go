package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"github.com/google/uuid"
)

// Transition outcomes, as the operator UI sends them.
const (
	OutcomeConfirm = "confirm"
	OutcomeReject  = "reject"
)

// BookingService owns the booking lifecycle. A transition is one logical
// operation over booking + payment + ticket that commits or rolls back as a
// whole; a reader must never see a CONFIRMED booking with a PENDING payment.
type BookingService struct {
	DB          *sql.DB
	BookingRepo repositories.BookingRepository
	PaymentRepo repositories.PaymentRepository
	TripRepo    repositories.TripRepository
	TicketSvc   TicketService
	Notifier    Notifier
	RequestID   string
	Now         func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateBookingInput is the minimal surface the rest of the subsystem
// exercises; full booking creation (seat maps, quotes) lives elsewhere.
type CreateBookingInput struct {
	UserID     string `json:"userId"`
	RouteID    string `json:"routeId"`
	SeatNumber string `json:"seatNumber"`
	TravelDate string `json:"travelDate"`
	Method     string `json:"method"`
}

// CreateBooking inserts a PENDING booking with its PENDING payment, then
// pre-mints the ticket when pending issuance is enabled. A mint failure does
// not undo the booking; the ticket can be re-issued on confirmation.
func (s BookingService) CreateBooking(in CreateBookingInput) (models.Booking, models.Payment, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.RouteID = strings.TrimSpace(in.RouteID)
	in.SeatNumber = strings.TrimSpace(in.SeatNumber)
	if in.UserID == "" || in.RouteID == "" || in.SeatNumber == "" {
		return models.Booking{}, models.Payment{}, domain.ValidationError{Field: "booking", Msg: "userId, routeId and seatNumber are required"}
	}
	if _, err := utils.ParseDate(in.TravelDate); err != nil {
		return models.Booking{}, models.Payment{}, domain.ValidationError{Field: "travelDate", Msg: "expected YYYY-MM-DD"}
	}

	fare, err := s.TripRepo.RouteFare(in.RouteID)
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}

	booking := models.Booking{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		RouteID:     in.RouteID,
		SeatNumber:  in.SeatNumber,
		TravelDate:  in.TravelDate,
		TotalAmount: fare,
		Status:      models.BookingPending,
	}
	payment := models.Payment{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		Method:        strings.TrimSpace(in.Method),
		Status:        models.PaymentPending,
		ReferenceCode: "PAY-" + strings.ToUpper(uuid.NewString()[:8]),
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	defer tx.Rollback()

	if err := s.BookingRepo.Create(tx, booking); err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	if err := s.PaymentRepo.Create(tx, payment); err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, models.Payment{}, err
	}

	if s.TicketSvc.IssueOnPending {
		if _, err := s.TicketSvc.Issue(booking.ID); err != nil {
			utils.LogEvent(s.RequestID, "booking", "create", "pre-mint failed: "+err.Error())
		}
	}

	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%s user_id=%s", booking.ID, booking.UserID))
	return booking, payment, nil
}

// Transition moves a PENDING booking to CONFIRMED or CANCELLED and settles
// its payment in the same transaction. On confirm the ticket is re-minted
// inside the transaction, so a mint failure rolls the whole confirm back.
// The precondition check and the write are one conditional update; only one
// Confirm-or-Cancel can ever succeed for a booking.
func (s BookingService) Transition(bookingID, outcome, actor, notes string) (models.Booking, models.Payment, error) {
	var target, paymentStatus string
	switch outcome {
	case OutcomeConfirm:
		target, paymentStatus = models.BookingConfirmed, models.PaymentCompleted
	case OutcomeReject:
		target, paymentStatus = models.BookingCancelled, models.PaymentFailed
	default:
		return models.Booking{}, models.Payment{}, domain.ValidationError{Field: "action", Msg: `expected "confirm" or "reject"`}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	defer tx.Rollback()

	moved, err := s.BookingRepo.TransitionStatus(tx, bookingID, models.BookingPending, target)
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	if !moved {
		// Either the booking is gone or someone else already settled it;
		// re-read to report which. Surfaced, never retried: a stale client
		// view needs a definitive answer.
		current, err := s.BookingRepo.GetByID(tx, bookingID)
		if err != nil {
			return models.Booking{}, models.Payment{}, err
		}
		return models.Booking{}, models.Payment{}, domain.InvalidTransitionError{BookingID: bookingID, Status: current.Status}
	}

	audit := models.PaymentAudit{
		Actor: actor,
		At:    s.now().Format(time.RFC3339),
		Notes: notes,
	}
	if err := s.PaymentRepo.MarkOutcome(tx, bookingID, paymentStatus, audit); err != nil {
		return models.Booking{}, models.Payment{}, err
	}

	if outcome == OutcomeConfirm {
		// Re-mint so the snapshot reflects the final, paid state.
		if _, err := s.TicketSvc.IssueIn(tx, tx, bookingID); err != nil {
			return models.Booking{}, models.Payment{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, models.Payment{}, err
	}

	booking, err := s.BookingRepo.GetByID(nil, bookingID)
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}
	payment, err := s.PaymentRepo.GetByBookingID(nil, bookingID)
	if err != nil {
		return models.Booking{}, models.Payment{}, err
	}

	s.notify(outcome, booking, payment, notes)

	utils.LogEvent(s.RequestID, "booking", "transition",
		fmt.Sprintf("booking_id=%s outcome=%s actor=%s status=%s", bookingID, outcome, actor, booking.Status))
	return booking, payment, nil
}

func (s BookingService) notify(outcome string, b models.Booking, p models.Payment, notes string) {
	if s.Notifier == nil {
		return
	}
	n := Notification{
		UserID:    b.UserID,
		BookingID: b.ID,
		Amount:    b.TotalAmount,
		Method:    p.Method,
	}
	var err error
	if outcome == OutcomeConfirm {
		err = s.Notifier.PaymentConfirmed(n)
	} else {
		n.Reason = notes
		err = s.Notifier.PaymentFailed(n)
	}
	if err != nil {
		// Delivery is fire-and-forget; the transition already committed.
		utils.LogEvent(s.RequestID, "booking", "notify", "dispatch failed: "+err.Error())
	}
}
