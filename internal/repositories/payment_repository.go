package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByBookingID returns the payment driving a booking's transition.
func (r PaymentRepository) GetByBookingID(q intdb.Queryer, bookingID string) (models.Payment, error) {
	if bookingID == "" {
		return models.Payment{}, domain.ValidationError{Field: "booking_id", Msg: "id is required"}
	}
	if q == nil {
		q = r.db()
	}

	query := `
		SELECT id,
		       booking_id,
		       COALESCE(method, ''),
		       status,
		       COALESCE(reference_code, ''),
		       COALESCE(metadata, '{}')
		FROM payments
		WHERE booking_id=? LIMIT 1`

	var p models.Payment
	var metadata []byte
	err := q.QueryRow(query, bookingID).Scan(
		&p.ID,
		&p.BookingID,
		&p.Method,
		&p.Status,
		&p.ReferenceCode,
		&metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.Payment{}, err
	}
	p.Metadata = json.RawMessage(metadata)
	return p, nil
}

// Create inserts the PENDING payment that accompanies a new booking.
func (r PaymentRepository) Create(ex intdb.Execer, p models.Payment) error {
	if p.ID == "" || p.BookingID == "" {
		return domain.ValidationError{Field: "payment", Msg: "id and booking_id are required"}
	}
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		INSERT INTO payments (id, booking_id, method, status, reference_code, metadata)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		p.ID, p.BookingID, intdb.NullIfEmpty(p.Method), p.Status, p.ReferenceCode,
	)
	return err
}

// MarkOutcome records the payment's final status together with the audit
// trail of who processed it and why.
func (r PaymentRepository) MarkOutcome(ex intdb.Execer, bookingID, status string, audit models.PaymentAudit) error {
	if ex == nil {
		ex = r.db()
	}
	metadata, err := json.Marshal(audit)
	if err != nil {
		return err
	}
	res, err := ex.Exec(`UPDATE payments SET status=?, metadata=? WHERE booking_id=?`, status, metadata, bookingID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "payment"}
	}
	return nil
}
