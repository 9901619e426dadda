package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings/:id/ticket — (re)mint the signed ticket.
func (h *Handlers) IssueTicket(c *gin.Context) {
	payload, err := h.ticketSvc(c).Issue(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": payload})
}

// GET /api/bookings/:id/ticket — the booking's current signed payload.
func (h *Handlers) GetTicket(c *gin.Context) {
	payload, err := h.ticketSvc(c).Current(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": payload})
}

// GET /api/bookings/:id/ticket/qr — the payload as a QR PNG.
func (h *Handlers) GetTicketQR(c *gin.Context) {
	png, err := h.docsSvc(c).TicketQR(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/bookings/:id/e-ticket — printable PDF with the embedded QR.
func (h *Handlers) GetETicketPDF(c *gin.Context) {
	pdf, filename, err := h.docsSvc(c).ETicketPDF(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
