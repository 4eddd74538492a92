package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/pkg/circuitbreaker"
)

// OutgoingEmail is a rendered multipart message ready for a transport.
type OutgoingEmail struct {
	From     string
	FromName string
	To       string
	Subject  string
	HTML     string
	Text     string
	Priority string
}

// MailTransport delivers one message and returns its Message-ID.
type MailTransport interface {
	Send(ctx context.Context, msg OutgoingEmail) (string, error)
}

// SMTPSettings describes how to reach a mail relay.
type SMTPSettings struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
}

// SMTPTransport sends mail with go-mail. A client is built per message so
// concurrent bulk sends do not share a connection.
type SMTPTransport struct {
	settings SMTPSettings
	cb       *gobreaker.CircuitBreaker
}

func NewSMTPTransport(settings SMTPSettings, logger *zap.Logger) (*SMTPTransport, error) {
	if settings.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if settings.Port <= 0 {
		settings.Port = 587
	}
	return &SMTPTransport{
		settings: settings,
		cb:       circuitbreaker.NewCircuitBreaker("smtp-"+settings.Host, logger, circuitbreaker.IgnoreErrors(RecipientRejected)),
	}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, e OutgoingEmail) (string, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(e.FromName, e.From); err != nil {
		return "", fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(e.To); err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(e.Subject)
	m.SetBodyString(mail.TypeTextPlain, e.Text)
	m.AddAlternativeString(mail.TypeTextHTML, e.HTML)
	if e.Priority == "high" {
		m.SetImportance(mail.ImportanceHigh)
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), senderDomain(e.From))
	m.SetGenHeader(mail.HeaderMessageID, messageID)

	client, err := mail.NewClient(t.settings.Host, t.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("create smtp client: %w", err)
	}

	_, err = t.cb.Execute(func() (interface{}, error) {
		return nil, client.DialAndSendWithContext(ctx, m)
	})
	if err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return messageID, nil
}

// RecipientRejected reports a permanent RCPT TO refusal. It concerns one
// mailbox, not the server, so it does not trip the breaker.
func RecipientRejected(err error) bool {
	var sendErr *mail.SendError
	return errors.As(err, &sendErr) && sendErr.Reason == mail.ErrSMTPRcptTo && !sendErr.IsTemp()
}

// BreakerState reports the transport circuit breaker state.
func (t *SMTPTransport) BreakerState() string {
	return t.cb.State().String()
}

func (t *SMTPTransport) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(t.settings.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if t.settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.settings.Username),
			mail.WithPassword(t.settings.Password))
	}
	if t.settings.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return opts
}

func senderDomain(addr string) string {
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		return addr[at+1:]
	}
	return "localhost"
}
