package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/importacademy/hotmart-bridge/internal/kafka"
	"github.com/importacademy/hotmart-bridge/internal/settings"
)

// Sender delivers one rendered mail.
type Sender interface {
	Send(m Mail) error
}

// Settings is the slice of the settings store the deliverer needs
// (the admin alert recipient is admin-mutable).
type Settings interface {
	Get(ctx context.Context, key, def string) string
}

// Deliverer consumes the outbox topic and turns envelopes into mail.
type Deliverer struct {
	Sender     Sender
	Settings   Settings
	AdminEmail string // fallback when the setting is empty
	URLs       SiteURLs
}

// Handle is the kafka consumer handler. A send failure is returned so
// the message stays uncommitted and is retried.
func (d *Deliverer) Handle(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// Unparseable messages would loop forever; log and commit.
		log.Printf("notifier: drop unparseable message: %v", err)
		return nil
	}

	mail, err := d.render(ctx, env)
	if err != nil {
		log.Printf("notifier: drop %s event %s: %v", env.Kind, env.EventID, err)
		return nil
	}

	if err := d.Sender.Send(mail); err != nil {
		return fmt.Errorf("send %s to %s: %w", env.Kind, mail.To, err)
	}
	log.Printf("notifier: sent %s to %s event=%s", env.Kind, mail.To, env.EventID)
	return nil
}

func (d *Deliverer) render(ctx context.Context, env Envelope) (Mail, error) {
	switch env.Kind {
	case KindWelcome:
		p, err := kafkax.UnwrapPayload[WelcomePayload](env.Payload)
		if err != nil {
			return Mail{}, err
		}
		return WelcomeMail(p.Email, p.FirstName, p.Password, d.URLs), nil

	case KindProductAvailable:
		p, err := kafkax.UnwrapPayload[ProductAvailablePayload](env.Payload)
		if err != nil {
			return Mail{}, err
		}
		return ProductAvailableMail(p.Email, p.FirstName, p.ProductName, d.URLs), nil

	case KindAdminAlert:
		p, err := kafkax.UnwrapPayload[AdminAlertPayload](env.Payload)
		if err != nil {
			return Mail{}, err
		}
		to := d.AdminEmail
		if d.Settings != nil {
			to = d.Settings.Get(ctx, settings.KeyErrorEmail, d.AdminEmail)
		}
		if to == "" {
			return Mail{}, fmt.Errorf("no admin email configured")
		}
		return AdminAlertMail(to, p.Message), nil

	default:
		return Mail{}, fmt.Errorf("unknown kind %q", env.Kind)
	}
}
