package services

import (
	"encoding/json"
	"fmt"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/ticket"
	"busline/internal/utils"
)

// ValidationService authenticates a presented QR payload and records the
// first scan exactly once. A repeat presentation of an authentic ticket is a
// success outcome that reports alreadyScanned, not a rejection.
type ValidationService struct {
	BookingRepo      repositories.BookingRepository
	VerificationRepo repositories.VerificationRepository
	Signer           ticket.Signer
	RequestID        string
	Now              func() time.Time
}

type ScanDetails struct {
	ScannedBy string `json:"scannedBy"`
	ScannedAt string `json:"scannedAt"`
}

type BookingDetails struct {
	PassengerName string `json:"passengerName"`
	Route         string `json:"route"`
	SeatNumber    string `json:"seatNumber"`
	TravelDate    string `json:"travelDate"`
	BusPlate      string `json:"busPlate"`
	Operator      string `json:"operator"`
}

type ValidationResult struct {
	Valid          bool            `json:"valid"`
	AlreadyScanned bool            `json:"alreadyScanned"`
	ScanDetails    *ScanDetails    `json:"scanDetails,omitempty"`
	BookingDetails *BookingDetails `json:"bookingDetails,omitempty"`
}

func (s ValidationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Validate runs the full scan protocol: parse, resolve, authenticate, check
// eligibility, then consult/append the verification ledger. Authentication
// and eligibility failures come back as typed errors; they are business
// outcomes for the caller to render as {valid:false}, never retried here.
func (s ValidationService) Validate(raw json.RawMessage, scannedBy, location string) (ValidationResult, error) {
	payload, err := ticket.ParsePayload(raw)
	if err != nil {
		return ValidationResult{}, err
	}

	b, err := s.BookingRepo.GetByID(nil, payload.BookingID)
	if err != nil {
		return ValidationResult{}, err
	}

	if !s.Signer.Verify(b.ID, b.UserID, payload.Signature) {
		utils.LogEvent(s.RequestID, "validate", "reject", fmt.Sprintf("booking_id=%s reason=signature", b.ID))
		return ValidationResult{}, domain.InvalidSignatureError{}
	}

	if !b.TicketEligible() {
		utils.LogEvent(s.RequestID, "validate", "reject", fmt.Sprintf("booking_id=%s reason=status status=%s", b.ID, b.Status))
		return ValidationResult{}, domain.IneligibleStateError{Status: b.Status}
	}

	details := &BookingDetails{
		PassengerName: payload.PassengerName,
		Route:         payload.Route,
		SeatNumber:    payload.SeatNumber,
		TravelDate:    payload.TravelDate,
		BusPlate:      payload.BusPlate,
		Operator:      payload.Operator,
	}

	// Insert-then-fall-back: when two terminals race on the same ticket,
	// exactly one insert wins the unique key and the loser re-reads the
	// winner's record. One internal retry, then the conflict surfaces.
	for attempt := 0; attempt < 2; attempt++ {
		existing, found, err := s.VerificationRepo.GetByBookingID(b.ID)
		if err != nil {
			return ValidationResult{}, err
		}
		if found {
			return ValidationResult{
				Valid:          true,
				AlreadyScanned: true,
				ScanDetails: &ScanDetails{
					ScannedBy: existing.ScannedBy,
					ScannedAt: existing.ScannedAt.Format(time.RFC3339),
				},
				BookingDetails: details,
			}, nil
		}

		scannedAt := s.now()
		err = s.VerificationRepo.Create(models.Verification{
			BookingID: b.ID,
			ScannedBy: scannedBy,
			ScannedAt: scannedAt,
			Location:  location,
		})
		if err == nil {
			utils.LogEvent(s.RequestID, "validate", "first_scan",
				fmt.Sprintf("booking_id=%s scanned_by=%s", b.ID, scannedBy))
			return ValidationResult{
				Valid:          true,
				AlreadyScanned: false,
				BookingDetails: details,
			}, nil
		}
		if !domain.IsConflict(err) {
			return ValidationResult{}, err
		}
		// Lost the race; loop once more to pick up the winner's record.
	}

	return ValidationResult{}, domain.ConflictError{Resource: "verification", Msg: "could not record scan"}
}
