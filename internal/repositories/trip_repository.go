package repositories

import (
	"database/sql"
	"errors"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
)

// TripRepository reads the collaborator records (user, route, bus, operator)
// a ticket snapshot is minted from. Read-only by design.
type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// SnapshotForBooking joins the booking's associated records into the fields
// a ticket payload carries.
func (r TripRepository) SnapshotForBooking(q intdb.Queryer, bookingID string) (models.TripSnapshot, error) {
	if bookingID == "" {
		return models.TripSnapshot{}, domain.ValidationError{Field: "booking_id", Msg: "id is required"}
	}
	if q == nil {
		q = r.db()
	}

	query := `
		SELECT u.name,
		       rt.origin,
		       rt.destination,
		       COALESCE(bs.plate_number, ''),
		       COALESCE(op.name, '')
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN routes rt ON rt.id = b.route_id
		LEFT JOIN buses bs ON bs.id = rt.bus_id
		LEFT JOIN operators op ON op.id = bs.operator_id
		WHERE b.id=? LIMIT 1`

	var snap models.TripSnapshot
	err := q.QueryRow(query, bookingID).Scan(
		&snap.PassengerName,
		&snap.RouteFrom,
		&snap.RouteTo,
		&snap.BusPlate,
		&snap.OperatorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TripSnapshot{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.TripSnapshot{}, err
	}
	return snap, nil
}

// RouteFare returns the fare for a route, used to price new bookings.
func (r TripRepository) RouteFare(routeID string) (int64, error) {
	if routeID == "" {
		return 0, domain.ValidationError{Field: "route_id", Msg: "id is required"}
	}

	var fare int64
	err := r.db().QueryRow(`SELECT fare FROM routes WHERE id=? LIMIT 1`, routeID).Scan(&fare)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NotFoundError{Resource: "route"}
		}
		return 0, err
	}
	return fare, nil
}
