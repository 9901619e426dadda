package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"busline/internal/domain"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type validateRequest struct {
	// QRData is either the ticket JSON object or the same object wrapped in
	// a JSON string, depending on the scanner firmware.
	QRData    json.RawMessage `json:"qrData"`
	ScannedBy string          `json:"scannedBy"`
	Location  string          `json:"location"`
}

// POST /api/tickets/validate
func (h *Handlers) ValidateTicket(c *gin.Context) {
	var req validateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	scannedBy := strings.TrimSpace(req.ScannedBy)
	if scannedBy == "" {
		scannedBy = middleware.AuthUserID(c)
	}
	if scannedBy == "" {
		RespondError(c, http.StatusBadRequest, "scannedBy is required", nil)
		return
	}

	result, err := h.validationSvc(c).Validate(req.QRData, scannedBy, strings.TrimSpace(req.Location))
	if err != nil {
		// Authentication and eligibility failures are final business
		// outcomes, not server errors; the passenger may simply re-present.
		switch {
		case domain.IsMalformedTicket(err):
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		case domain.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"valid": false, "error": "Booking not found"})
		case domain.IsInvalidSignature(err):
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "Invalid ticket signature"})
		case domain.IsIneligibleState(err):
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		default:
			RespondDomainError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
