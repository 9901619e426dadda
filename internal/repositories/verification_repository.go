package repositories

import (
	"database/sql"
	"errors"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

// VerificationRepository is the append-only ledger of first scans. Rows are
// never updated or deleted; the unique key on booking_id is what makes the
// at-most-once guarantee hold under concurrent scans.
type VerificationRepository struct {
	DB *sql.DB
}

func (r VerificationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByBookingID returns the recorded first scan, if any.
func (r VerificationRepository) GetByBookingID(bookingID string) (models.Verification, bool, error) {
	if bookingID == "" {
		return models.Verification{}, false, domain.ValidationError{Field: "booking_id", Msg: "id is required"}
	}

	query := `
		SELECT id, booking_id, scanned_by, scanned_at, COALESCE(location, '')
		FROM verifications
		WHERE booking_id=? LIMIT 1`

	var v models.Verification
	err := r.db().QueryRow(query, bookingID).Scan(
		&v.ID,
		&v.BookingID,
		&v.ScannedBy,
		&v.ScannedAt,
		&v.Location,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Verification{}, false, nil
		}
		return models.Verification{}, false, err
	}
	return v, true, nil
}

// Create appends the first-scan record. A duplicate-key error means a
// concurrent scan won the insert; that comes back as a conflict so the
// caller can fall back to the already-scanned read.
func (r VerificationRepository) Create(v models.Verification) error {
	if v.BookingID == "" {
		return domain.ValidationError{Field: "booking_id", Msg: "id is required"}
	}
	_, err := r.db().Exec(`
		INSERT INTO verifications (booking_id, scanned_by, scanned_at, location)
		VALUES (?, ?, ?, ?)`,
		v.BookingID, v.ScannedBy, v.ScannedAt, intdb.NullIfEmpty(v.Location),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "verification", Msg: "booking already scanned", Err: err}
		}
		return err
	}
	return nil
}
