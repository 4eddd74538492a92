package models

import "time"

// NotificationType is the closed set of notification kinds the clinic sends.
type NotificationType string

const (
	AppointmentReminder     NotificationType = "appointment_reminder"
	AppointmentConfirmation NotificationType = "appointment_confirmation"
	VaccinationReminder     NotificationType = "vaccination_reminder"
	CheckupReminder         NotificationType = "checkup_reminder"
	PrescriptionReady       NotificationType = "prescription_ready"
	LabResultsReady         NotificationType = "lab_results_ready"
	EmergencyAlert          NotificationType = "emergency_alert"
	GeneralAnnouncement     NotificationType = "general_announcement"
)

// NotificationTypes lists every known type in catalog order.
var NotificationTypes = []NotificationType{
	AppointmentReminder,
	AppointmentConfirmation,
	VaccinationReminder,
	CheckupReminder,
	PrescriptionReady,
	LabResultsReady,
	EmergencyAlert,
	GeneralAnnouncement,
}

// Method is a delivery channel.
type Method string

const (
	MethodSMS   Method = "sms"
	MethodEmail Method = "email"
	MethodAuto  Method = "auto"
)

// Urgency hints carried in SendOptions.
const (
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
	UrgencyUrgent = "urgent"
)

// Provider names reported in results and status.
const (
	ProviderTwilio  = "twilio"
	ProviderMock    = "mock"
	ProviderGmail   = "gmail"
	ProviderOutlook = "outlook"
	ProviderSMTP    = "smtp"
	ProviderNone    = "none"
)

// SendOptions carries per-request hints for a send.
type SendOptions struct {
	Urgency     string            `json:"urgency,omitempty"`
	PatientName string            `json:"patientName,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ChannelSelection is the router's decision for one patient.
type ChannelSelection struct {
	Method   Method `json:"method"`
	Contact  string `json:"contact"`
	Fallback Method `json:"fallback,omitempty"`
}

// DeliveryResult is the structured outcome of any send. It is never persisted by
// the delivery core.
type DeliveryResult struct {
	Success   bool       `json:"success"`
	MessageID string     `json:"messageId,omitempty"`
	Status    string     `json:"status,omitempty"`
	Error     string     `json:"error,omitempty"`
	Provider  string     `json:"provider,omitempty"`
	To        string     `json:"to,omitempty"`
	SentAt    *time.Time `json:"sentAt,omitempty"`

	// Skipped marks an intentionally absent address; not a failure to alert on.
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`

	// Fallback is set when the SMS gateway failed and the send was simulated.
	Fallback bool `json:"fallback,omitempty"`

	// RecipientID tags bulk results with the recipient they were dispatched for.
	RecipientID string `json:"recipientId,omitempty"`

	PatientID         string           `json:"patientId,omitempty"`
	PatientName       string           `json:"patientName,omitempty"`
	Type              NotificationType `json:"type,omitempty"`
	Method            Method           `json:"method,omitempty"`
	PrimaryMethod     Method           `json:"primaryMethod,omitempty"`
	FallbackMethod    Method           `json:"fallbackMethod,omitempty"`
	FallbackAvailable bool             `json:"fallbackAvailable"`
	UsedFallback      bool             `json:"usedFallback,omitempty"`
}

// BulkResult aggregates a bulk notification run.
type BulkResult struct {
	Total      int              `json:"total"`
	Sent       int              `json:"sent"`
	Failed     int              `json:"failed"`
	SMSCount   int              `json:"smsCount"`
	EmailCount int              `json:"emailCount"`
	Results    []DeliveryResult `json:"results"`
}

// SMSRecipient is one entry of an SMS bulk send.
type SMSRecipient struct {
	Phone     string `json:"phone"`
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
}

// EmailRecipient is one entry of an email bulk send.
type EmailRecipient struct {
	Email     string `json:"email"`
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
}

// ChannelStatus describes a channel's readiness.
type ChannelStatus struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider"`
	Ready      bool   `json:"ready"`
	Breaker    string `json:"breaker,omitempty"`
}

// AggregateStatus is the router-level operational view.
type AggregateStatus struct {
	SMS             ChannelStatus `json:"sms"`
	Email           ChannelStatus `json:"email"`
	PreferredMethod Method        `json:"preferredMethod"`
	FallbackEnabled bool          `json:"fallbackEnabled"`
}
