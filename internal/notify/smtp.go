package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSender delivers rendered mail through a relay. No auth: the
// relay is expected to be a local, access-controlled MTA.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func (s *SMTPSender) Send(m Mail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", m.ContentType)
	fmt.Fprintf(&b, "\r\n%s\r\n", m.Body)

	return smtp.SendMail(s.Addr, nil, s.From, []string{m.To}, []byte(b.String()))
}
