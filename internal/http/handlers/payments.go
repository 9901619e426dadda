package handlers

import (
	"net/http"

	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type processPaymentRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// POST /api/payments/:bookingId/process — confirm or reject a payment,
// driving the booking's PENDING -> CONFIRMED/CANCELLED transition.
func (h *Handlers) ProcessPayment(c *gin.Context) {
	var req processPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	actor := middleware.AuthUserID(c)
	if actor == "" {
		actor = "operator"
	}

	booking, payment, err := h.bookingSvc(c).Transition(c.Param("bookingId"), req.Action, actor, req.Notes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": gin.H{"id": payment.ID, "status": payment.Status},
		"booking": gin.H{"id": booking.ID, "status": booking.Status},
	})
}
