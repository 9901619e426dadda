package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "busline/internal/config"
	"busline/internal/domain/models"
	"busline/internal/ticket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func newValidateRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prior := intconfig.DB
	intconfig.DB = db
	t.Cleanup(func() { intconfig.DB = prior })

	hs := New(intconfig.Env{TicketSecret: "fixed-test-secret", JWTSecret: "test-jwt"})
	r := gin.New()
	r.POST("/api/tickets/validate", hs.ValidateTicket)
	return r
}

func postValidate(r *gin.Engine, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/validate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateEndpointFirstScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	r := newValidateRouter(t, db)

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "route_id", "seat_number", "travel_date",
			"total_amount", "status", "ticket_payload", "created_at", "updated_at",
		}).AddRow("bk1", "u1", "rt1", "A1", "2025-06-01", int64(150000), models.BookingPending, "", now, now))
	mock.ExpectQuery("FROM verifications").WithArgs("bk1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "scanned_by", "scanned_at", "location"}))
	mock.ExpectExec("INSERT INTO verifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	payload := models.TicketPayload{
		BookingID:  "bk1",
		SeatNumber: "A1",
		Signature:  ticket.NewSigner("fixed-test-secret").Sign("bk1", "u1"),
	}
	w := postValidate(r, gin.H{"qrData": payload, "scannedBy": "terminal-A", "location": "gate 1"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Valid          bool `json:"valid"`
		AlreadyScanned bool `json:"alreadyScanned"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Valid || resp.AlreadyScanned {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestValidateEndpointUnknownBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	r := newValidateRouter(t, db)

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	w := postValidate(r, gin.H{
		"qrData":    gin.H{"bookingId": "ghost", "signature": "deadbeef"},
		"scannedBy": "terminal-A",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid || resp.Error != "Booking not found" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

func TestValidateEndpointMalformedQR(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	r := newValidateRouter(t, db)

	w := postValidate(r, gin.H{"qrData": "not a ticket", "scannedBy": "terminal-A"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid {
		t.Fatalf("malformed ticket reported valid: %s", w.Body.String())
	}
}

func TestValidateEndpointRequiresScanner(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	r := newValidateRouter(t, db)

	w := postValidate(r, gin.H{"qrData": gin.H{"bookingId": "bk1"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}
