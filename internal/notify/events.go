package notify

import (
	"encoding/json"
	"time"
)

const TopicNotifications = "hotmart.notifications"

const (
	KindWelcome          = "WelcomeEmail"
	KindProductAvailable = "ProductAvailableEmail"
	KindAdminAlert       = "AdminAlert"
)

// Envelope wraps one queued notification on the outbox topic.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Kind       string          `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type WelcomePayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	// Password is the generated plaintext credential for the brand-new
	// account. It exists only in flight; the store keeps a bcrypt hash.
	Password string `json:"password"`
}

type ProductAvailablePayload struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	ProductName string `json:"product_name"`
}

type AdminAlertPayload struct {
	Message string `json:"message"`
}
