package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"busline/internal/domain/models"
	"busline/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DocsService renders the passenger-facing artifacts of a ticket: the QR
// image itself and a printable e-ticket PDF embedding it.
type DocsService struct {
	TicketSvc TicketService
	RequestID string
}

// TicketQR encodes the booking's current signed payload as a QR PNG.
func (s DocsService) TicketQR(bookingID string) ([]byte, error) {
	payload, err := s.TicketSvc.Current(bookingID)
	if err != nil {
		return nil, err
	}
	serialized, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	utils.LogEvent(s.RequestID, "docs", "ticket_qr", "booking_id="+bookingID)
	return qrcode.Encode(string(serialized), qrcode.Medium, 320)
}

// ETicketPDF renders the A4 e-ticket with trip snapshot and scannable QR.
func (s DocsService) ETicketPDF(bookingID string) ([]byte, string, error) {
	payload, err := s.TicketSvc.Current(bookingID)
	if err != nil {
		return nil, "", err
	}
	png, err := s.TicketQR(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "eticket_pdf", "booking_id="+bookingID)
	return buildETicketPDF(payload, png)
}

func buildETicketPDF(p models.TicketPayload, qrPNG []byte) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger   : %s", safe(p.PassengerName, "-")),
		fmt.Sprintf("Route       : %s", safe(p.Route, "-")),
		fmt.Sprintf("Seat        : %s", safe(p.SeatNumber, "-")),
		fmt.Sprintf("Travel date : %s", safe(p.TravelDate, "-")),
		fmt.Sprintf("Bus plate   : %s", safe(p.BusPlate, "-")),
		fmt.Sprintf("Operator    : %s", safe(p.Operator, "-")),
		fmt.Sprintf("Amount      : %s", utils.FormatMoney(p.Amount)),
		fmt.Sprintf("Booking     : %s", p.BookingID),
		fmt.Sprintf("Issued at   : %s", safe(p.GeneratedAt, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("ticket-qr", pdf.GetX(), pdf.GetY(), 60, 60, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 64)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this QR code at boarding. The ticket is honored as first use exactly once; repeat scans are reported to the conductor.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", p.BookingID, safeFilenamePart(p.SeatNumber))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	return replacer.Replace(s)
}
