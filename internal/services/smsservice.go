package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/internal/config"
	"github.com/franzego/maybunga-notifications/internal/contact"
	"github.com/franzego/maybunga-notifications/internal/metrics"
	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/templates"
)

// MaxSMSLength is the longest body the gateway accepts (ten concatenated segments).
const MaxSMSLength = 1600

// SMSGateway is a provider that can deliver one text message.
type SMSGateway interface {
	SendSMS(ctx context.Context, to, body string) (GatewayReceipt, error)
}

var smsPlaceholders = map[string]bool{
	"your_account_sid":         true,
	"your_twilio_account_sid":  true,
	"your_auth_token":          true,
	"your_twilio_auth_token":   true,
	"your_phone_number":        true,
	"your_twilio_phone_number": true,
	"+1234567890":              true,
	"changeme":                 true,
}

// UseSMSGateway applies the startup policy: an explicit mock flag wins, then
// complete non-placeholder Twilio credentials select the real gateway, and
// anything else runs the simulator. The reason is for logs.
func UseSMSGateway(cfg config.SMSConfig) (bool, string) {
	if cfg.MockMode || strings.EqualFold(cfg.Provider, models.ProviderMock) {
		return false, "mock mode requested"
	}
	creds := []string{cfg.AccountSID, cfg.AuthToken, cfg.FromNumber}
	for _, c := range creds {
		c = strings.TrimSpace(c)
		if c == "" {
			return false, "twilio credentials missing"
		}
		if smsPlaceholders[strings.ToLower(c)] {
			return false, "twilio credentials are placeholders"
		}
	}
	return true, "twilio credentials configured"
}

type SMSService struct {
	gateway    SMSGateway
	simulator  *Simulator
	registry   *templates.Registry
	batchSize  int
	batchDelay time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewSMSService builds the SMS channel. A nil gateway means mock mode: every
// send goes to the simulator.
func NewSMSService(
	gateway SMSGateway,
	simulator *Simulator,
	registry *templates.Registry,
	batchSize int,
	batchDelay time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *SMSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if simulator == nil {
		simulator = NewSimulator(nil, time.Second, 3*time.Second, 0.05)
	}
	if registry == nil {
		registry = templates.NewRegistry()
	}
	if batchSize <= 0 {
		batchSize = 5
	}
	return &SMSService{
		gateway:    gateway,
		simulator:  simulator,
		registry:   registry,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		logger:     logger,
		metrics:    m,
	}
}

// NewSMSServiceFromConfig wires the Twilio gateway or the simulator according
// to UseSMSGateway.
func NewSMSServiceFromConfig(cfg config.SMSConfig, registry *templates.Registry, logger *zap.Logger, m *metrics.Metrics) *SMSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	var gateway SMSGateway
	useGateway, reason := UseSMSGateway(cfg)
	if useGateway {
		gateway = NewTwilioGateway(cfg.AccountSID, cfg.AuthToken, cfg.FromNumber, cfg.StatusCallbackURL, logger)
		logger.Info("SMS service configured", zap.String("provider", models.ProviderTwilio))
	} else {
		logger.Warn("SMS service running in mock mode", zap.String("reason", reason))
	}
	simulator := NewSimulator(nil, cfg.MockMinDelay, cfg.MockMaxDelay, cfg.MockFailureRate)
	return NewSMSService(gateway, simulator, registry, cfg.BatchSize, cfg.BatchDelay, logger, m)
}

func (s *SMSService) Configured() bool {
	return s.gateway != nil
}

func (s *SMSService) Provider() string {
	if s.gateway != nil {
		return models.ProviderTwilio
	}
	return models.ProviderMock
}

// Send validates, normalizes and delivers one SMS. It never returns an error:
// every outcome is a DeliveryResult.
func (s *SMSService) Send(ctx context.Context, recipient, body string, opts models.SendOptions) models.DeliveryResult {
	if strings.TrimSpace(recipient) == "" {
		return s.fail("", "Recipient phone number is required")
	}
	if strings.TrimSpace(body) == "" {
		return s.fail(recipient, "Message body is required")
	}
	if utf8.RuneCountInString(body) > MaxSMSLength {
		return s.fail(recipient, fmt.Sprintf("Message too long (max %d characters)", MaxSMSLength))
	}
	if !contact.IsValidPhilippineNumber(recipient) {
		return s.fail(recipient, "Invalid Philippine phone number format")
	}
	to, err := contact.NormalizePhone(recipient)
	if err != nil {
		return s.fail(recipient, err.Error())
	}

	if s.gateway == nil {
		return s.simulate(ctx, to, body, false)
	}

	receipt, err := s.gateway.SendSMS(ctx, to, body)
	if err != nil {
		s.logger.Error("SMS gateway send failed, falling back to mock sender",
			zap.String("to", to),
			zap.String("urgency", opts.Urgency),
			zap.Error(err))
		s.count(models.ProviderTwilio, false)
		return s.simulate(ctx, to, body, true)
	}

	s.count(models.ProviderTwilio, true)
	sentAt := time.Now()
	s.logger.Info("SMS sent",
		zap.String("provider", models.ProviderTwilio),
		zap.String("to", to),
		zap.String("message_id", receipt.MessageID))
	return models.DeliveryResult{
		Success:   true,
		MessageID: receipt.MessageID,
		Status:    receipt.Status,
		Provider:  models.ProviderTwilio,
		To:        to,
		SentAt:    &sentAt,
	}
}

func (s *SMSService) simulate(ctx context.Context, to, body string, afterGatewayFailure bool) models.DeliveryResult {
	if s.metrics != nil {
		s.metrics.SimulatedSends.Inc()
	}
	receipt, err := s.simulator.SendSMS(ctx, to, body)
	s.count(models.ProviderMock, err == nil)
	if err != nil {
		s.logger.Warn("mock SMS send failed", zap.String("to", to), zap.Error(err))
		return models.DeliveryResult{
			Success:  false,
			Error:    err.Error(),
			Provider: models.ProviderMock,
			To:       to,
			Fallback: afterGatewayFailure,
		}
	}

	sentAt := time.Now()
	s.logger.Info("SMS sent (MOCK)",
		zap.String("to", to),
		zap.String("message_id", receipt.MessageID),
		zap.Int("length", utf8.RuneCountInString(body)),
		zap.Bool("gateway_fallback", afterGatewayFailure))
	return models.DeliveryResult{
		Success:   true,
		MessageID: receipt.MessageID,
		Status:    receipt.Status,
		Provider:  models.ProviderMock,
		To:        to,
		SentAt:    &sentAt,
		Fallback:  afterGatewayFailure,
	}
}

// SendBulk sends body to every recipient in windows of batchSize with
// batchDelay between windows. results[i] answers recipients[i] and is tagged
// with its PatientID.
func (s *SMSService) SendBulk(ctx context.Context, recipients []models.SMSRecipient, body string, opts models.SendOptions) []models.DeliveryResult {
	refs := make([]string, len(recipients))
	for i, r := range recipients {
		refs[i] = r.PatientID
	}
	s.logger.Info("sending bulk SMS",
		zap.Int("recipients", len(recipients)),
		zap.Int("batch_size", s.batchSize))
	return dispatchBatches(ctx, refs, s.batchSize, s.batchDelay, func(ctx context.Context, i int) models.DeliveryResult {
		return s.Send(ctx, recipients[i].Phone, body, opts)
	})
}

// RenderTemplate returns the SMS text for a notification type.
func (s *SMSService) RenderTemplate(t models.NotificationType, vars map[string]string) string {
	return s.registry.SMS(t, vars)
}

func (s *SMSService) Status() models.ChannelStatus {
	status := models.ChannelStatus{
		Configured: s.Configured(),
		Provider:   s.Provider(),
		Ready:      true,
	}
	if b, ok := s.gateway.(interface{ BreakerState() string }); ok {
		status.Breaker = b.BreakerState()
	}
	return status
}

func (s *SMSService) fail(to, msg string) models.DeliveryResult {
	return models.DeliveryResult{
		Success:  false,
		Error:    msg,
		Provider: s.Provider(),
		To:       to,
	}
}

func (s *SMSService) count(provider string, ok bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.ChannelSends.WithLabelValues(string(models.MethodSMS), provider, metrics.Outcome(ok, false)).Inc()
}
