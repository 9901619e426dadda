package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id,
	       user_id,
	       route_id,
	       seat_number,
	       DATE_FORMAT(travel_date, '%Y-%m-%d'),
	       total_amount,
	       status,
	       COALESCE(ticket_payload, ''),
	       created_at,
	       updated_at`

// GetByID fetches a booking. Pass a nil Queryer to use the shared DB; pass a
// *sql.Tx to read inside a transaction.
func (r BookingRepository) GetByID(q intdb.Queryer, id string) (models.Booking, error) {
	if id == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "id is required"}
	}
	if q == nil {
		q = r.db()
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id=? LIMIT 1`

	var b models.Booking
	err := q.QueryRow(query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.RouteID,
		&b.SeatNumber,
		&b.TravelDate,
		&b.TotalAmount,
		&b.Status,
		&b.TicketPayload,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, err
	}
	return b, nil
}

// Create inserts a new booking row. Status must be set by the caller.
func (r BookingRepository) Create(ex intdb.Execer, b models.Booking) error {
	if b.ID == "" || b.UserID == "" || b.RouteID == "" {
		return domain.ValidationError{Field: "booking", Msg: "id, user_id and route_id are required"}
	}
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		INSERT INTO bookings (id, user_id, route_id, seat_number, travel_date, total_amount, status, ticket_payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		b.ID, b.UserID, b.RouteID, b.SeatNumber, b.TravelDate, b.TotalAmount, b.Status,
	)
	return err
}

// TransitionStatus performs the conditional status update that serializes the
// state machine: the row only changes while it still holds the expected
// status. Returns false when another transition won the race (or the booking
// does not exist); callers re-read to tell the two apart.
func (r BookingRepository) TransitionStatus(ex intdb.Execer, id, from, to string) (bool, error) {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// UpdateTicketPayload stores the booking's current ticket artifact,
// overwriting any prior one.
func (r BookingRepository) UpdateTicketPayload(ex intdb.Execer, id, payload string) error {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`UPDATE bookings SET ticket_payload=?, updated_at=NOW() WHERE id=?`, payload, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}
