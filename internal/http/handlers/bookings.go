package handlers

import (
	"net/http"

	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var in services.CreateBookingInput
	if !BindJSONOrError(c, &in) {
		return
	}

	booking, payment, err := h.bookingSvc(c).CreateBooking(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking": bookingJSON(booking),
		"payment": paymentJSON(payment),
	})
}

// GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id := c.Param("id")

	booking, err := repositories.BookingRepository{}.GetByID(nil, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := gin.H{"booking": bookingJSON(booking)}
	if payment, err := (repositories.PaymentRepository{}).GetByBookingID(nil, id); err == nil {
		out["payment"] = paymentJSON(payment)
	}
	c.JSON(http.StatusOK, out)
}

func bookingJSON(b models.Booking) gin.H {
	return gin.H{
		"id":         b.ID,
		"userId":     b.UserID,
		"routeId":    b.RouteID,
		"seatNumber": b.SeatNumber,
		"travelDate": b.TravelDate,
		"amount":     b.TotalAmount,
		"status":     b.Status,
		"hasTicket":  b.TicketPayload != "",
	}
}

func paymentJSON(p models.Payment) gin.H {
	return gin.H{
		"id":            p.ID,
		"bookingId":     p.BookingID,
		"method":        p.Method,
		"status":        p.Status,
		"referenceCode": p.ReferenceCode,
	}
}
