package ticket

import (
	"encoding/json"
	"strings"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

// ParsePayload decodes a presented QR payload. Scanner terminals send either
// the ticket JSON object directly or the same object wrapped in a JSON
// string; both decode here through one explicit branch. Anything else, or a
// payload without a bookingId, is a malformed ticket — no alternate formats
// are guessed at.
func ParsePayload(raw json.RawMessage) (models.TicketPayload, error) {
	var payload models.TicketPayload

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return payload, domain.MalformedTicketError{Reason: "empty payload"}
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return payload, domain.MalformedTicketError{Reason: "invalid JSON"}
		}
		raw = json.RawMessage(inner)
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, domain.MalformedTicketError{Reason: "invalid JSON"}
	}
	if strings.TrimSpace(payload.BookingID) == "" {
		return payload, domain.MalformedTicketError{Reason: "missing bookingId"}
	}
	return payload, nil
}
