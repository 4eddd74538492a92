package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/internal/config"
	"github.com/franzego/maybunga-notifications/internal/contact"
	"github.com/franzego/maybunga-notifications/internal/metrics"
	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/templates"
)

const (
	errNoContact    = "No valid contact method found for patient"
	testPatientID   = "test"
	testPatientName = "Test Patient"
	testMessage     = "This is a test notification from Maybunga Health Center. If you received this message, notifications are working correctly."
)

// SMSChannel is the SMS side of the router.
type SMSChannel interface {
	Send(ctx context.Context, recipient, body string, opts models.SendOptions) models.DeliveryResult
	SendBulk(ctx context.Context, recipients []models.SMSRecipient, body string, opts models.SendOptions) []models.DeliveryResult
	Status() models.ChannelStatus
}

// EmailChannel is the email side of the router.
type EmailChannel interface {
	Send(ctx context.Context, to, subject, content string, opts models.SendOptions) models.DeliveryResult
	SendBulk(ctx context.Context, recipients []models.EmailRecipient, subject, content string, opts models.SendOptions) []models.DeliveryResult
	Status() models.ChannelStatus
}

// NotificationService picks a channel per patient, renders the template for it
// and falls back to the patient's other channel when the first send fails.
// None of its operations return errors; every outcome is a result value.
type NotificationService struct {
	sms             SMSChannel
	email           EmailChannel
	registry        *templates.Registry
	preferredMethod models.Method
	fallbackEnabled bool
	portalURL       string
	logger          *zap.Logger
	metrics         *metrics.Metrics
}

func NewNotificationService(
	sms SMSChannel,
	email EmailChannel,
	registry *templates.Registry,
	cfg config.NotificationConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = templates.NewRegistry()
	}
	preferred := models.Method(strings.ToLower(strings.TrimSpace(cfg.DefaultMethod)))
	if preferred != models.MethodSMS && preferred != models.MethodEmail {
		preferred = models.MethodAuto
	}
	return &NotificationService{
		sms:             sms,
		email:           email,
		registry:        registry,
		preferredMethod: preferred,
		fallbackEnabled: cfg.FallbackEnabled,
		portalURL:       strings.TrimSpace(cfg.PortalURL),
		logger:          logger,
		metrics:         m,
	}
}

// SelectChannel decides how to reach a patient. It returns nil when neither the
// phone nor the email on file is usable.
func (n *NotificationService) SelectChannel(patient models.Patient) *models.ChannelSelection {
	phoneOK := contact.UsablePhone(patient.ContactNumber)
	emailOK := contact.UsableEmail(patient.Email)
	phone := strings.TrimSpace(patient.ContactNumber)
	email := strings.TrimSpace(patient.Email)

	smsSelection := func() *models.ChannelSelection {
		sel := &models.ChannelSelection{Method: models.MethodSMS, Contact: phone}
		if emailOK {
			sel.Fallback = models.MethodEmail
		}
		return sel
	}
	emailSelection := func() *models.ChannelSelection {
		sel := &models.ChannelSelection{Method: models.MethodEmail, Contact: email}
		if phoneOK {
			sel.Fallback = models.MethodSMS
		}
		return sel
	}

	switch {
	case n.preferredMethod == models.MethodSMS && phoneOK:
		return smsSelection()
	case n.preferredMethod == models.MethodEmail && emailOK:
		return emailSelection()
	case phoneOK:
		return smsSelection()
	case emailOK:
		return emailSelection()
	}
	return nil
}

// SendNotification delivers one templated notification to a patient, trying
// the fallback channel once if allowed.
func (n *NotificationService) SendNotification(
	ctx context.Context,
	patient models.Patient,
	t models.NotificationType,
	vars map[string]string,
	opts models.SendOptions,
) models.DeliveryResult {
	name := patientName(patient, opts)
	vars = withPatientName(vars, name)
	patientID := string(patient.ID)

	selection := n.SelectChannel(patient)
	if selection == nil {
		if n.metrics != nil {
			n.metrics.NoContact.Inc()
		}
		n.logger.Info("patient has no usable contact method",
			zap.String("patient_id", patientID),
			zap.String("type", string(t)))
		return models.DeliveryResult{
			Success:     false,
			Error:       errNoContact,
			PatientID:   patientID,
			PatientName: name,
			Type:        t,
		}
	}

	result := n.dispatch(ctx, selection.Method, selection.Contact, t, vars, opts)
	result.Method = selection.Method

	if !result.Success && n.fallbackEnabled && selection.Fallback != "" {
		fallbackContact := patient.Email
		if selection.Fallback == models.MethodSMS {
			fallbackContact = patient.ContactNumber
		}
		n.logger.Warn("primary channel failed, trying fallback",
			zap.String("patient_id", patientID),
			zap.String("primary", string(selection.Method)),
			zap.String("fallback", string(selection.Fallback)),
			zap.String("error", result.Error))

		fallback := n.dispatch(ctx, selection.Fallback, strings.TrimSpace(fallbackContact), t, vars, opts)
		fallback.Method = selection.Fallback
		fallback.FallbackMethod = selection.Fallback
		if fallback.Success {
			fallback.UsedFallback = true
		} else {
			fallback.Error = fmt.Sprintf("primary %s failed: %s; fallback %s failed: %s",
				selection.Method, result.Error, selection.Fallback, fallbackError(fallback))
		}
		if n.metrics != nil {
			n.metrics.FallbacksTriggered.WithLabelValues(string(selection.Method), metrics.Outcome(fallback.Success, false)).Inc()
		}
		result = fallback
	}

	result.PatientID = patientID
	result.PatientName = name
	result.Type = t
	result.PrimaryMethod = selection.Method
	result.FallbackAvailable = selection.Fallback != ""

	if n.metrics != nil {
		n.metrics.NotificationsSent.WithLabelValues(string(t), string(result.Method), metrics.Outcome(result.Success, result.Skipped)).Inc()
	}
	return result
}

// dispatch renders for method and calls the channel, turning a channel panic
// into a failed result.
func (n *NotificationService) dispatch(
	ctx context.Context,
	method models.Method,
	to string,
	t models.NotificationType,
	vars map[string]string,
	opts models.SendOptions,
) (res models.DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("notification channel panicked",
				zap.String("method", string(method)),
				zap.Any("panic", r))
			res = models.DeliveryResult{Success: false, Error: fmt.Sprintf("%s channel error: %v", method, r)}
		}
	}()

	switch method {
	case models.MethodSMS:
		return n.sms.Send(ctx, to, n.registry.SMS(t, vars), opts)
	case models.MethodEmail:
		return n.email.Send(ctx, to, n.registry.EmailSubject(t, vars), n.registry.EmailBody(t, vars), opts)
	}
	return models.DeliveryResult{Success: false, Error: fmt.Sprintf("unsupported method %q", method)}
}

type bulkTarget struct {
	patient   models.Patient
	selection *models.ChannelSelection
}

// SendBulkNotifications partitions patients by channel and sends one shared
// rendering per channel. Results are matched back to patients through the
// recipient tag each channel result carries.
func (n *NotificationService) SendBulkNotifications(
	ctx context.Context,
	patients []models.Patient,
	t models.NotificationType,
	vars map[string]string,
	opts models.SendOptions,
) models.BulkResult {
	out := models.BulkResult{Total: len(patients), Results: make([]models.DeliveryResult, 0, len(patients))}

	targets := make(map[string]bulkTarget, len(patients))
	var smsRecipients []models.SMSRecipient
	var emailRecipients []models.EmailRecipient

	for i, p := range patients {
		selection := n.SelectChannel(p)
		if selection == nil {
			if n.metrics != nil {
				n.metrics.NoContact.Inc()
			}
			out.Results = append(out.Results, models.DeliveryResult{
				Success:     false,
				Error:       errNoContact,
				PatientID:   string(p.ID),
				PatientName: p.FullName(),
				Type:        t,
			})
			continue
		}
		// positions are unique even when patient ids are missing or repeated
		ref := strconv.Itoa(i)
		targets[ref] = bulkTarget{patient: p, selection: selection}
		switch selection.Method {
		case models.MethodSMS:
			smsRecipients = append(smsRecipients, models.SMSRecipient{Phone: selection.Contact, PatientID: ref, Name: p.FullName()})
		case models.MethodEmail:
			emailRecipients = append(emailRecipients, models.EmailRecipient{Email: selection.Contact, PatientID: ref, Name: p.FullName()})
		}
	}
	out.SMSCount = len(smsRecipients)
	out.EmailCount = len(emailRecipients)

	n.logger.Info("sending bulk notifications",
		zap.String("type", string(t)),
		zap.Int("total", out.Total),
		zap.Int("sms", out.SMSCount),
		zap.Int("email", out.EmailCount),
		zap.Int("no_contact", out.Total-out.SMSCount-out.EmailCount))

	if len(smsRecipients) > 0 {
		body := n.registry.SMS(t, vars)
		results := n.bulk(models.MethodSMS, len(smsRecipients), func() []models.DeliveryResult {
			return n.sms.SendBulk(ctx, smsRecipients, body, opts)
		})
		out.Results = append(out.Results, n.attach(results, targets, models.MethodSMS, t)...)
	}
	if len(emailRecipients) > 0 {
		subject := n.registry.EmailSubject(t, vars)
		content := n.registry.EmailBody(t, vars)
		results := n.bulk(models.MethodEmail, len(emailRecipients), func() []models.DeliveryResult {
			return n.email.SendBulk(ctx, emailRecipients, subject, content, opts)
		})
		out.Results = append(out.Results, n.attach(results, targets, models.MethodEmail, t)...)
	}

	for _, r := range out.Results {
		if r.Success {
			out.Sent++
		}
	}
	out.Failed = len(out.Results) - out.Sent
	return out
}

func (n *NotificationService) bulk(method models.Method, count int, send func() []models.DeliveryResult) (results []models.DeliveryResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("bulk channel send panicked", zap.String("method", string(method)), zap.Any("panic", r))
			results = make([]models.DeliveryResult, count)
			for i := range results {
				results[i] = models.DeliveryResult{Success: false, Error: fmt.Sprintf("%s channel error: %v", method, r)}
			}
		}
		if n.metrics != nil {
			n.metrics.BulkDuration.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())
		}
	}()
	return send()
}

func (n *NotificationService) attach(results []models.DeliveryResult, targets map[string]bulkTarget, method models.Method, t models.NotificationType) []models.DeliveryResult {
	for i := range results {
		r := &results[i]
		r.Method = method
		r.PrimaryMethod = method
		r.Type = t
		target, ok := targets[r.RecipientID]
		if !ok {
			n.logger.Warn("bulk result without a known recipient", zap.String("recipient_id", r.RecipientID))
			continue
		}
		r.PatientID = string(target.patient.ID)
		r.RecipientID = string(target.patient.ID)
		r.PatientName = target.patient.FullName()
		r.FallbackAvailable = target.selection.Fallback != ""
		if n.metrics != nil {
			n.metrics.NotificationsSent.WithLabelValues(string(t), string(method), metrics.Outcome(r.Success, r.Skipped)).Inc()
		}
	}
	return results
}

// SendSMS bypasses routing and sends a raw SMS.
func (n *NotificationService) SendSMS(ctx context.Context, recipient, message string, opts models.SendOptions) models.DeliveryResult {
	res := n.dispatchRaw(models.MethodSMS, func() models.DeliveryResult {
		return n.sms.Send(ctx, recipient, message, opts)
	})
	res.Method = models.MethodSMS
	return res
}

// SendEmail bypasses routing and sends a raw email.
func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, content string, opts models.SendOptions) models.DeliveryResult {
	res := n.dispatchRaw(models.MethodEmail, func() models.DeliveryResult {
		return n.email.Send(ctx, recipient, subject, content, opts)
	})
	res.Method = models.MethodEmail
	return res
}

func (n *NotificationService) dispatchRaw(method models.Method, send func() models.DeliveryResult) (res models.DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("notification channel panicked", zap.String("method", string(method)), zap.Any("panic", r))
			res = models.DeliveryResult{Success: false, Error: fmt.Sprintf("%s channel error: %v", method, r)}
		}
	}()
	return send()
}

// TestNotification sends a self-test announcement to contact using method
// ("sms", "email" or "auto" for both fields).
func (n *NotificationService) TestNotification(ctx context.Context, contactValue string, method models.Method) models.DeliveryResult {
	patient := models.Patient{ID: testPatientID, Name: testPatientName}
	switch method {
	case models.MethodSMS:
		patient.ContactNumber = contactValue
	case models.MethodEmail:
		patient.Email = contactValue
	default:
		patient.ContactNumber = contactValue
		patient.Email = contactValue
	}
	return n.SendNotification(ctx, patient, models.GeneralAnnouncement, map[string]string{
		"message": testMessage,
	}, models.SendOptions{Urgency: models.UrgencyNormal, PatientName: testPatientName})
}

// Status aggregates both channels' readiness with the routing configuration.
func (n *NotificationService) Status() models.AggregateStatus {
	return models.AggregateStatus{
		SMS:             n.sms.Status(),
		Email:           n.email.Status(),
		PreferredMethod: n.preferredMethod,
		FallbackEnabled: n.fallbackEnabled,
	}
}

func patientName(p models.Patient, opts models.SendOptions) string {
	if name := p.FullName(); name != "" {
		return name
	}
	return strings.TrimSpace(opts.PatientName)
}

// withPatientName copies vars and fills patientName when the caller left it out.
func withPatientName(vars map[string]string, name string) map[string]string {
	out := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	if out["patientName"] == "" && name != "" {
		out["patientName"] = name
	}
	return out
}

func fallbackError(r models.DeliveryResult) string {
	if r.Error != "" {
		return r.Error
	}
	return r.Reason
}
