package services

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/ticket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

const testSecret = "fixed-test-secret"

var testScanTime = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

func newValidationSvc(db *sql.DB) ValidationService {
	return ValidationService{
		BookingRepo:      repositories.BookingRepository{DB: db},
		VerificationRepo: repositories.VerificationRepository{DB: db},
		Signer:           ticket.NewSigner(testSecret),
		Now:              func() time.Time { return testScanTime },
	}
}

func bookingRow(id, userID, status, payload string) *sqlmock.Rows {
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "user_id", "route_id", "seat_number", "travel_date",
		"total_amount", "status", "ticket_payload", "created_at", "updated_at",
	}).AddRow(id, userID, "rt1", "A1", "2025-06-01", int64(150000), status, payload, now, now)
}

func signedTicket(t *testing.T, bookingID, userID string) json.RawMessage {
	t.Helper()
	payload := models.TicketPayload{
		BookingID:     bookingID,
		PassengerName: "Ana",
		Route:         "Springfield - Shelbyville",
		SeatNumber:    "A1",
		TravelDate:    "2025-06-01",
		BusPlate:      "B 1234 XY",
		Operator:      "Northern Lines",
		Amount:        150000,
		GeneratedAt:   "2025-05-20T10:00:00Z",
		Signature:     ticket.NewSigner(testSecret).Sign(bookingID, userID),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal ticket: %v", err)
	}
	return raw
}

func TestValidateFirstScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bk1").
		WillReturnRows(bookingRow("bk1", "u1", models.BookingPending, ""))
	mock.ExpectQuery("FROM verifications").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "scanned_by", "scanned_at", "location"}))
	mock.ExpectExec("INSERT INTO verifications").
		WithArgs("bk1", "terminal-A", testScanTime, "gate 3").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := newValidationSvc(db).Validate(signedTicket(t, "bk1", "u1"), "terminal-A", "gate 3")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !res.Valid || res.AlreadyScanned {
		t.Fatalf("expected fresh valid scan, got %+v", res)
	}
	if res.BookingDetails == nil || res.BookingDetails.PassengerName != "Ana" || res.BookingDetails.SeatNumber != "A1" {
		t.Fatalf("booking details missing or wrong: %+v", res.BookingDetails)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateRepeatScanReportsFirstScanner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bk1").
		WillReturnRows(bookingRow("bk1", "u1", models.BookingConfirmed, ""))
	mock.ExpectQuery("FROM verifications").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "scanned_by", "scanned_at", "location"}).
			AddRow(int64(7), "bk1", "terminal-A", testScanTime, "gate 3"))

	res, err := newValidationSvc(db).Validate(signedTicket(t, "bk1", "u1"), "terminal-B", "")
	if err != nil {
		t.Fatalf("repeat scan must be a success outcome, got %v", err)
	}
	if !res.Valid || !res.AlreadyScanned {
		t.Fatalf("expected already-scanned success, got %+v", res)
	}
	if res.ScanDetails == nil || res.ScanDetails.ScannedBy != "terminal-A" {
		t.Fatalf("scan details must report the first scanner: %+v", res.ScanDetails)
	}
	if res.ScanDetails.ScannedAt != testScanTime.Format(time.RFC3339) {
		t.Fatalf("unexpected scannedAt: %s", res.ScanDetails.ScannedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateTamperedSignature(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bk1").
		WillReturnRows(bookingRow("bk1", "u1", models.BookingPending, ""))

	var payload models.TicketPayload
	if err := json.Unmarshal(signedTicket(t, "bk1", "u1"), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	flipped := "0"
	if payload.Signature[0] == '0' {
		flipped = "1"
	}
	payload.Signature = flipped + payload.Signature[1:]
	raw, _ := json.Marshal(payload)

	_, err = newValidationSvc(db).Validate(raw, "terminal-A", "")
	if !domain.IsInvalidSignature(err) {
		t.Fatalf("expected invalid signature error, got %v", err)
	}

	// No verification may be consulted or created for a forged ticket.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateUnknownBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = newValidationSvc(db).Validate(signedTicket(t, "ghost", "u1"), "terminal-A", "")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateCancelledBookingIneligible(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bk1").
		WillReturnRows(bookingRow("bk1", "u1", models.BookingCancelled, ""))

	_, err = newValidationSvc(db).Validate(signedTicket(t, "bk1", "u1"), "terminal-A", "")
	if !domain.IsIneligibleState(err) {
		t.Fatalf("expected ineligible state, got %v", err)
	}
	if err.Error() != "booking status is CANCELLED" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateMalformedPayload(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	_, err = newValidationSvc(db).Validate(json.RawMessage(`{"noBooking":true}`), "terminal-A", "")
	if !domain.IsMalformedTicket(err) {
		t.Fatalf("expected malformed ticket, got %v", err)
	}
}

func TestValidateRaceLoserFallsBackToAlreadyScanned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bk1").
		WillReturnRows(bookingRow("bk1", "u1", models.BookingPending, ""))
	// First read sees no prior scan...
	mock.ExpectQuery("FROM verifications").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "scanned_by", "scanned_at", "location"}))
	// ...the insert loses the unique-key race...
	mock.ExpectExec("INSERT INTO verifications").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	// ...and the re-read picks up the winner's record.
	mock.ExpectQuery("FROM verifications").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "scanned_by", "scanned_at", "location"}).
			AddRow(int64(9), "bk1", "terminal-A", testScanTime, ""))

	res, err := newValidationSvc(db).Validate(signedTicket(t, "bk1", "u1"), "terminal-B", "")
	if err != nil {
		t.Fatalf("race loser must resolve to success, got %v", err)
	}
	if !res.Valid || !res.AlreadyScanned {
		t.Fatalf("expected already-scanned success, got %+v", res)
	}
	if res.ScanDetails == nil || res.ScanDetails.ScannedBy != "terminal-A" {
		t.Fatalf("expected winner's scan details, got %+v", res.ScanDetails)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
