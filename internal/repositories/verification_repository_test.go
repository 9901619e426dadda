package repositories

import (
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestVerificationCreateDuplicateKeyIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO verifications").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'bk1'"})

	repo := VerificationRepository{DB: db}
	err = repo.Create(models.Verification{
		BookingID: "bk1",
		ScannedBy: "terminal-A",
		ScannedAt: time.Now().UTC(),
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate key, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerificationGetByBookingIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM verifications").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "scanned_by", "scanned_at", "location"}))

	_, found, err := VerificationRepository{DB: db}.GetByBookingID("bk1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatal("expected no verification")
	}
}

func TestBookingTransitionStatusConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("CONFIRMED", "bk1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs("CONFIRMED", "bk1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepository{DB: db}
	moved, err := repo.TransitionStatus(nil, "bk1", "PENDING", "CONFIRMED")
	if err != nil || !moved {
		t.Fatalf("first transition should win: moved=%v err=%v", moved, err)
	}
	moved, err = repo.TransitionStatus(nil, "bk1", "PENDING", "CONFIRMED")
	if err != nil {
		t.Fatalf("second transition errored: %v", err)
	}
	if moved {
		t.Fatal("second transition must not report success")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
