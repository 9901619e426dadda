package handlers

import (
	"net/http"
	"time"

	"busline/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/verifications/:bookingId — the recorded first scan, if any.
func (h *Handlers) GetVerification(c *gin.Context) {
	bookingID := c.Param("bookingId")

	v, found, err := repositories.VerificationRepository{}.GetByBookingID(bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking has not been scanned"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingId": v.BookingID,
		"scannedBy": v.ScannedBy,
		"scannedAt": v.ScannedAt.Format(time.RFC3339),
		"location":  v.Location,
	})
}
