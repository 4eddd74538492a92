package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/internal/config"
	"github.com/franzego/maybunga-notifications/internal/contact"
	"github.com/franzego/maybunga-notifications/internal/metrics"
	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/templates"
)

const skippedEmailReason = "No valid email address provided (N/A)"

type EmailService struct {
	transport  MailTransport
	provider   string
	from       string
	fromName   string
	registry   *templates.Registry
	batchSize  int
	batchDelay time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// EmailSender identifies the From line of outgoing mail.
type EmailSender struct {
	Address string
	Name    string
}

// NewEmailService builds the email channel. A nil transport leaves the channel
// unconfigured: sends fail with a result, nothing panics.
func NewEmailService(
	transport MailTransport,
	provider string,
	sender EmailSender,
	registry *templates.Registry,
	batchSize int,
	batchDelay time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = templates.NewRegistry()
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	if transport == nil {
		provider = models.ProviderNone
	}
	if sender.Name == "" {
		sender.Name = templates.ClinicName
	}
	return &EmailService{
		transport:  transport,
		provider:   provider,
		from:       sender.Address,
		fromName:   sender.Name,
		registry:   registry,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		logger:     logger,
		metrics:    m,
	}
}

// SMTPSettingsFor resolves the relay for a provider name. Missing credentials
// or an unknown provider return an error describing why email stays off.
func SMTPSettingsFor(cfg config.EmailConfig) (SMTPSettings, error) {
	if cfg.User == "" || cfg.Password == "" {
		return SMTPSettings{}, fmt.Errorf("email credentials missing")
	}
	settings := SMTPSettings{Username: cfg.User, Password: cfg.Password, Port: 587}
	switch cfg.Provider {
	case models.ProviderGmail:
		settings.Host = "smtp.gmail.com"
	case models.ProviderOutlook:
		settings.Host = "smtp-mail.outlook.com"
	case models.ProviderSMTP:
		if cfg.SMTPHost == "" {
			return SMTPSettings{}, fmt.Errorf("smtp host missing")
		}
		settings.Host = cfg.SMTPHost
		settings.Secure = cfg.SMTPSecure
		if cfg.SMTPPort > 0 {
			settings.Port = cfg.SMTPPort
		}
	default:
		return SMTPSettings{}, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
	return settings, nil
}

// NewEmailServiceFromConfig wires go-mail for the configured provider, or an
// unconfigured channel when that is impossible. The failure is logged only.
func NewEmailServiceFromConfig(cfg config.EmailConfig, registry *templates.Registry, logger *zap.Logger, m *metrics.Metrics) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	var transport MailTransport
	settings, err := SMTPSettingsFor(cfg)
	if err == nil {
		transport, err = NewSMTPTransport(settings, logger)
	}
	if err != nil {
		logger.Warn("email service not configured", zap.String("provider", cfg.Provider), zap.Error(err))
		transport = nil
	} else {
		logger.Info("email service configured",
			zap.String("provider", cfg.Provider),
			zap.String("host", settings.Host),
			zap.Int("port", settings.Port))
	}
	return NewEmailService(transport, cfg.Provider, EmailSender{Address: cfg.User, Name: cfg.FromName},
		registry, cfg.BatchSize, cfg.BatchDelay, logger, m)
}

func (e *EmailService) Configured() bool {
	return e.transport != nil
}

func (e *EmailService) Provider() string {
	return e.provider
}

// Send delivers content wrapped in the clinic letterhead. A sentinel address
// yields a skipped result, not a failure.
func (e *EmailService) Send(ctx context.Context, to, subject, content string, opts models.SendOptions) models.DeliveryResult {
	if contact.IsSentinel(to) {
		e.count(false, true)
		return models.DeliveryResult{
			Success:  false,
			Skipped:  true,
			Reason:   skippedEmailReason,
			Provider: e.provider,
		}
	}
	to = strings.TrimSpace(to)
	if !contact.IsValidEmail(to) {
		return e.fail(to, fmt.Sprintf("Invalid email address: %s", to))
	}
	if !e.Configured() {
		return e.fail(to, "Email service not configured")
	}

	body, err := templates.Letterhead(subject, asHTML(content))
	if err != nil {
		return e.fail(to, err.Error())
	}
	priority := ""
	if opts.Urgency == models.UrgencyHigh || opts.Urgency == models.UrgencyUrgent {
		priority = "high"
	}

	messageID, err := e.transport.Send(ctx, OutgoingEmail{
		From:     e.from,
		FromName: e.fromName,
		To:       to,
		Subject:  subject,
		HTML:     body,
		Text:     templates.PlainText(body),
		Priority: priority,
	})
	if err != nil {
		e.logger.Error("email send failed",
			zap.String("provider", e.provider),
			zap.String("to", to),
			zap.Error(err))
		e.count(false, false)
		return e.fail(to, err.Error())
	}

	e.count(true, false)
	sentAt := time.Now()
	e.logger.Info("email sent",
		zap.String("provider", e.provider),
		zap.String("to", to),
		zap.String("message_id", messageID))
	return models.DeliveryResult{
		Success:   true,
		MessageID: messageID,
		Status:    "sent",
		Provider:  e.provider,
		To:        to,
		SentAt:    &sentAt,
	}
}

// SendBulk sends the same subject and content to every recipient in windows of
// batchSize with batchDelay between windows, preserving input order.
func (e *EmailService) SendBulk(ctx context.Context, recipients []models.EmailRecipient, subject, content string, opts models.SendOptions) []models.DeliveryResult {
	refs := make([]string, len(recipients))
	for i, r := range recipients {
		refs[i] = r.PatientID
	}
	e.logger.Info("sending bulk email",
		zap.Int("recipients", len(recipients)),
		zap.Int("batch_size", e.batchSize))
	return dispatchBatches(ctx, refs, e.batchSize, e.batchDelay, func(ctx context.Context, i int) models.DeliveryResult {
		return e.Send(ctx, recipients[i].Email, subject, content, opts)
	})
}

// RenderTemplate returns the HTML fragment for a notification type.
func (e *EmailService) RenderTemplate(t models.NotificationType, vars map[string]string) string {
	return e.registry.EmailBody(t, vars)
}

// Subject returns the subject line for a notification type.
func (e *EmailService) Subject(t models.NotificationType, vars map[string]string) string {
	return e.registry.EmailSubject(t, vars)
}

func (e *EmailService) Status() models.ChannelStatus {
	status := models.ChannelStatus{
		Configured: e.Configured(),
		Provider:   e.provider,
		Ready:      e.Configured(),
	}
	if b, ok := e.transport.(interface{ BreakerState() string }); ok {
		status.Breaker = b.BreakerState()
	}
	return status
}

func (e *EmailService) fail(to, msg string) models.DeliveryResult {
	return models.DeliveryResult{
		Success:  false,
		Error:    msg,
		Provider: e.provider,
		To:       to,
	}
}

func (e *EmailService) count(ok, skipped bool) {
	if e.metrics == nil {
		return
	}
	e.metrics.ChannelSends.WithLabelValues(string(models.MethodEmail), e.provider, metrics.Outcome(ok, skipped)).Inc()
}

// asHTML passes HTML through and turns plain text into escaped paragraphs.
func asHTML(content string) string {
	if strings.Contains(content, "<") && strings.Contains(content, ">") {
		return content
	}
	return templates.Paragraph(content)
}
