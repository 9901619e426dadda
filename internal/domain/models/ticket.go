package models

// TicketPayload is the signed trip snapshot encoded into the QR image. It is
// a capability token: whoever presents a correctly signed payload for a
// booking in an eligible state is treated as the ticket holder.
type TicketPayload struct {
	BookingID     string `json:"bookingId"`
	PassengerName string `json:"passengerName"`
	Route         string `json:"route"`
	SeatNumber    string `json:"seatNumber"`
	TravelDate    string `json:"travelDate"`
	BusPlate      string `json:"busPlate"`
	Operator      string `json:"operator"`
	Amount        int64  `json:"amount"`
	GeneratedAt   string `json:"generatedAt"`
	Signature     string `json:"signature"`
}

// TripSnapshot is the read-only view of collaborator records (user, route,
// bus, operator) a ticket is minted from.
type TripSnapshot struct {
	PassengerName string
	RouteFrom     string
	RouteTo       string
	BusPlate      string
	OperatorName  string
}
