package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/internal/middleware"
	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/queue"
	"github.com/franzego/maybunga-notifications/internal/store"
)

const IdempotencyHeader = "Idempotency-Key"

// Notifier is the delivery core as the HTTP layer sees it.
type Notifier interface {
	SendNotification(ctx context.Context, patient models.Patient, t models.NotificationType, vars map[string]string, opts models.SendOptions) models.DeliveryResult
	SendBulkNotifications(ctx context.Context, patients []models.Patient, t models.NotificationType, vars map[string]string, opts models.SendOptions) models.BulkResult
	SendSMS(ctx context.Context, recipient, message string, opts models.SendOptions) models.DeliveryResult
	SendEmail(ctx context.Context, recipient, subject, content string, opts models.SendOptions) models.DeliveryResult
	TestNotification(ctx context.Context, contact string, method models.Method) models.DeliveryResult
	Status() models.AggregateStatus

	SendAppointmentReminder(ctx context.Context, patient models.Patient, appt models.Appointment) models.DeliveryResult
	SendAppointmentConfirmation(ctx context.Context, patient models.Patient, appt models.Appointment) models.DeliveryResult
	SendVaccinationReminder(ctx context.Context, patient models.Patient, v models.Vaccination) models.DeliveryResult
	SendCheckupReminder(ctx context.Context, patient models.Patient, c models.Checkup) models.DeliveryResult
	SendPrescriptionReady(ctx context.Context, patient models.Patient, p models.Prescription) models.DeliveryResult
	SendLabResultsReady(ctx context.Context, patient models.Patient, r models.LabResult) models.DeliveryResult
	SendEmergencyAlert(ctx context.Context, patient models.Patient, a models.Alert) models.DeliveryResult
}

// StatusStore caches delivery statuses. It is optional: a nil store disables
// caching, status lookups and idempotency keys.
type StatusStore interface {
	SaveResult(ctx context.Context, r models.DeliveryResult) error
	ApplyCallback(ctx context.Context, cb models.SMSStatusCallback) (models.DeliveryStatus, error)
	Get(ctx context.Context, messageID string) (models.DeliveryStatus, error)
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type NotificationHandler struct {
	notifier  Notifier
	store     StatusStore
	publisher queue.EventPublisher
	logger    *zap.Logger
}

func NewNotificationHandler(
	notifier Notifier,
	statusStore StatusStore,
	publisher queue.EventPublisher,
	logger *zap.Logger,
) *NotificationHandler {
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{
		notifier:  notifier,
		store:     statusStore,
		publisher: publisher,
		logger:    logger,
	}
}

// Register mounts the notification routes on rg.
func (n *NotificationHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/send", n.SendNotification)
	rg.POST("/send-bulk", n.SendBulk)
	rg.POST("/sms", n.SendSMS)
	rg.POST("/email", n.SendEmail)
	rg.POST("/test", n.TestNotification)
	rg.GET("/status", n.GetStatus)
	rg.GET("/deliveries/:id", n.GetDelivery)

	rg.POST("/appointment-reminder", reminder(n, n.notifier.SendAppointmentReminder, "Appointment reminder processed"))
	rg.POST("/appointment-confirmation", reminder(n, n.notifier.SendAppointmentConfirmation, "Appointment confirmation processed"))
	rg.POST("/vaccination-reminder", reminder(n, n.notifier.SendVaccinationReminder, "Vaccination reminder processed"))
	rg.POST("/checkup-reminder", reminder(n, n.notifier.SendCheckupReminder, "Checkup reminder processed"))
	rg.POST("/prescription-ready", reminder(n, n.notifier.SendPrescriptionReady, "Prescription notification processed"))
	rg.POST("/lab-results-ready", reminder(n, n.notifier.SendLabResultsReady, "Lab results notification processed"))
	rg.POST("/emergency-alert", reminder(n, n.notifier.SendEmergencyAlert, "Emergency alert processed"))
}

func (n *NotificationHandler) SendNotification(c *gin.Context) {
	var req models.SendNotificationRequest
	if !bind(c, &req) {
		return
	}
	if req.Patient == nil || strings.TrimSpace(string(req.Type)) == "" {
		badRequest(c, "Patient and notification type are required")
		return
	}
	if n.duplicate(c) {
		return
	}
	result := n.notifier.SendNotification(detached(c), *req.Patient, req.Type, req.Variables, req.Options)
	n.settle(c, result.Success)
	n.record(c, result)
	respond(c, result, "Notification processed")
}

func (n *NotificationHandler) SendBulk(c *gin.Context) {
	var req models.SendBulkRequest
	if !bind(c, &req) {
		return
	}
	if len(req.Patients) == 0 || strings.TrimSpace(string(req.Type)) == "" {
		badRequest(c, "Patients list and notification type are required")
		return
	}
	if n.duplicate(c) {
		return
	}
	out := n.notifier.SendBulkNotifications(detached(c), req.Patients, req.Type, req.Variables, req.Options)
	n.settle(c, out.Sent > 0)
	n.record(c, out.Results...)
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    out,
		Message: "Bulk notifications processed",
	})
}

func (n *NotificationHandler) SendSMS(c *gin.Context) {
	var req models.SendSMSRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Recipient) == "" || strings.TrimSpace(req.Message) == "" {
		badRequest(c, "Recipient and message are required")
		return
	}
	if n.duplicate(c) {
		return
	}
	result := n.notifier.SendSMS(detached(c), req.Recipient, req.Message, req.Options)
	n.settle(c, result.Success)
	n.record(c, result)
	respond(c, result, "SMS processed")
}

func (n *NotificationHandler) SendEmail(c *gin.Context) {
	var req models.SendEmailRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Recipient) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(c, "Recipient, subject, and content are required")
		return
	}
	if n.duplicate(c) {
		return
	}
	result := n.notifier.SendEmail(detached(c), req.Recipient, req.Subject, req.Content, req.Options)
	n.settle(c, result.Success)
	n.record(c, result)
	respond(c, result, "Email processed")
}

func (n *NotificationHandler) TestNotification(c *gin.Context) {
	var req models.TestNotificationRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Contact) == "" {
		badRequest(c, "Contact is required")
		return
	}
	method := models.Method(strings.ToLower(strings.TrimSpace(string(req.Method))))
	if method == "" {
		method = models.MethodAuto
	}
	result := n.notifier.TestNotification(detached(c), strings.TrimSpace(req.Contact), method)
	n.record(c, result)
	respond(c, result, "Test notification processed")
}

func (n *NotificationHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    n.notifier.Status(),
		Message: "Notification service status",
	})
}

func (n *NotificationHandler) GetDelivery(c *gin.Context) {
	if n.store == nil {
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Success: false,
			Error:   "delivery status store not configured",
			Message: "Service Unavailable",
		})
		return
	}
	status, err := n.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Success: false,
			Error:   err.Error(),
			Message: "Not Found",
		})
		return
	}
	if err != nil {
		n.logger.Error("failed to read delivery status", zap.String("message_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "failed to read delivery status",
			Message: "Internal Server Error",
		})
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    status,
		Message: "Delivery status",
	})
}

func reminder[T any](n *NotificationHandler, send func(context.Context, models.Patient, T) models.DeliveryResult, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReminderRequest[T]
		if !bind(c, &req) {
			return
		}
		if req.Patient == nil {
			badRequest(c, "Patient is required")
			return
		}
		result := send(detached(c), *req.Patient, req.Details)
		n.record(c, result)
		respond(c, result, message)
	}
}

// duplicate claims the request's idempotency key and answers 409 when the key
// was seen before. Store errors let the request through.
func (n *NotificationHandler) duplicate(c *gin.Context) bool {
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if key == "" || n.store == nil {
		return false
	}
	claimed, err := n.store.Claim(c.Request.Context(), key)
	if err != nil {
		n.logger.Warn("idempotency check failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if claimed {
		return false
	}
	c.JSON(http.StatusConflict, models.APIResponse{
		Success: false,
		Error:   "duplicate request",
		Message: "Notification Already Processed",
	})
	return true
}

// settle frees the claimed idempotency key when nothing was delivered, so the
// client can retry with the same key.
func (n *NotificationHandler) settle(c *gin.Context, delivered bool) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if delivered || key == "" || n.store == nil {
		return
	}
	if err := n.store.Release(detached(c), key); err != nil {
		n.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// record caches and publishes send outcomes. Failures are logged only.
func (n *NotificationHandler) record(c *gin.Context, results ...models.DeliveryResult) {
	ctx := detached(c)
	correlationID := middleware.GetCorrelationID(c)
	for _, r := range results {
		if n.store != nil {
			if err := n.store.SaveResult(ctx, r); err != nil {
				n.logger.Warn("failed to store delivery status", zap.String("message_id", r.MessageID), zap.Error(err))
			}
		}
		if err := n.publisher.PublishDeliveryEvent(ctx, queue.NewDeliveryEvent(r, correlationID)); err != nil {
			n.logger.Warn("failed to publish delivery event", zap.String("message_id", r.MessageID), zap.Error(err))
		}
	}
}

// detached keeps request values but outlives a client disconnect: a dispatched
// send always runs to completion.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   err.Error(),
			Message: "Invalid Request Body",
		})
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Success: false,
		Error:   msg,
		Message: "Validation failed",
	})
}

func respond(c *gin.Context, result models.DeliveryResult, message string) {
	errMsg := result.Error
	if errMsg == "" && !result.Success {
		errMsg = result.Reason
	}
	c.JSON(http.StatusOK, models.APIResponse{
		Success: result.Success,
		Data:    result,
		Error:   errMsg,
		Message: message,
	})
}
