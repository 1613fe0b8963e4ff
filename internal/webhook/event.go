package webhook

// EventType is the closed set of purchase lifecycle events we act on.
// Anything else parses to EventUnknown and is rejected upstream.
type EventType string

const (
	EventApproved   EventType = "PURCHASE_APPROVED"
	EventProtested  EventType = "PURCHASE_PROTEST"
	EventChargeback EventType = "PURCHASE_CHARGEBACK"
	EventUnknown    EventType = ""
)

func ParseEventType(s string) EventType {
	switch EventType(s) {
	case EventApproved, EventProtested, EventChargeback:
		return EventType(s)
	}
	return EventUnknown
}

// ValidatedEvent is a payload that survived validation. All text
// fields are sanitized; the derived name fields are precomputed so the
// downstream stages never re-parse the raw body.
type ValidatedEvent struct {
	Type     EventType
	RawEvent string // as received, for unknown-event logging

	TransactionID string
	Email         string
	FullName      string
	FirstName     string
	LastName      string
	Username      string
	ProductName   string

	// AuthToken is the sanitized Authorization header value. It is
	// carried only for downstream logging, never re-validated.
	AuthToken string
}
