package models

import "time"

type SendNotificationRequest struct {
	Patient   *Patient          `json:"patient"`
	Type      NotificationType  `json:"type"`
	Variables map[string]string `json:"variables"`
	Options   SendOptions       `json:"options"`
}

type SendBulkRequest struct {
	Patients  []Patient         `json:"patients"`
	Type      NotificationType  `json:"type"`
	Variables map[string]string `json:"variables"`
	Options   SendOptions       `json:"options"`
}

type SendSMSRequest struct {
	Recipient string      `json:"recipient"`
	Message   string      `json:"message"`
	Options   SendOptions `json:"options"`
}

type SendEmailRequest struct {
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	Content   string      `json:"content"`
	Options   SendOptions `json:"options"`
}

type TestNotificationRequest struct {
	Contact string `json:"contact"`
	Method  Method `json:"method"`
}

// ReminderRequest carries a patient plus the domain object a convenience
// notification is built from.
type ReminderRequest[T any] struct {
	Patient *Patient `json:"patient"`
	Details T        `json:"details"`
}

// SMSStatusCallback is the delivery receipt posted by the SMS gateway.
type SMSStatusCallback struct {
	MessageID string `json:"messageId" form:"MessageSid"`
	Status    string `json:"status" form:"MessageStatus"`
	To        string `json:"to" form:"To"`
	From      string `json:"from" form:"From"`
	ErrorCode string `json:"errorCode,omitempty" form:"ErrorCode"`
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
}

// DeliveryStatus is what the status cache keeps per message id.
type DeliveryStatus struct {
	MessageID string           `json:"messageId"`
	Method    Method           `json:"method,omitempty"`
	Provider  string           `json:"provider,omitempty"`
	Status    string           `json:"status"`
	To        string           `json:"to,omitempty"`
	PatientID string           `json:"patientId,omitempty"`
	Type      NotificationType `json:"type,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// DeliveryEvent is published to the event exchange for each send outcome.
type DeliveryEvent struct {
	ID            string           `json:"id"`
	MessageID     string           `json:"messageId,omitempty"`
	Success       bool             `json:"success"`
	Skipped       bool             `json:"skipped,omitempty"`
	Method        Method           `json:"method,omitempty"`
	Provider      string           `json:"provider,omitempty"`
	PatientID     string           `json:"patientId,omitempty"`
	Type          NotificationType `json:"type,omitempty"`
	UsedFallback  bool             `json:"usedFallback,omitempty"`
	Error         string           `json:"error,omitempty"`
	CorrelationID string           `json:"correlationId,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}
