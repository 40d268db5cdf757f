package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/icp-outreach/internal/core"
	"go.uber.org/zap"
)

// Sender is an implementation of the EmailSender interface over SMTP with
// PLAIN authentication. SMTP reply codes drive the failure classification:
// 4yz replies are transient, 5yz replies are permanent.
type Sender struct {
	addr     string
	username string
	password string
	from     string
	logger   *zap.Logger
}

// NewSender creates a new SMTP email sender. addr is host:port.
func NewSender(addr, username, password, from string, logger *zap.Logger) *Sender {
	return &Sender{
		addr:     addr,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// Send delivers one message to one recipient. An address without a domain
// part is rejected up front as a permanent failure.
func (s *Sender) Send(ctx context.Context, msg *core.OutreachEmail) error {
	if !strings.Contains(msg.To, "@") {
		return &core.PermanentDeliveryError{
			Recipient: msg.To,
			Err:       fmt.Errorf("recipient address has no domain part"),
		}
	}

	var auth sasl.Client
	if s.username != "" {
		auth = sasl.NewPlainClient("", s.username, s.password)
	}

	raw := s.buildMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.addr, auth, s.from, []string{msg.To}, strings.NewReader(raw))
	}()

	var err error
	select {
	case <-ctx.Done():
		return core.Transient(ctx.Err())
	case err = <-done:
	}
	if err != nil {
		return s.classify(msg.To, err)
	}

	s.logger.Debug("SMTP message accepted",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))

	return nil
}

// buildMessage renders the RFC 5322 message with an HTML body.
func (s *Sender) buildMessage(msg *core.OutreachEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}

// classify maps an SMTP failure to the delivery error taxonomy.
func (s *Sender) classify(recipient string, err error) error {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		if smtpErr.Code >= 500 {
			return &core.PermanentDeliveryError{Recipient: recipient, Err: err}
		}
		return core.Transient(err)
	}
	// Connection-level failures (dial, TLS, timeouts) are transient.
	return core.Transient(err)
}
