package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/internal/metrics"
	"github.com/franzego/maybunga-notifications/internal/models"
)

// WebhookHandler accepts delivery receipts from the SMS gateway. The gateway
// retries on non-2xx responses, so every request is answered with 200.
type WebhookHandler struct {
	store   StatusStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewWebhookHandler(statusStore StatusStore, m *metrics.Metrics, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{store: statusStore, metrics: m, logger: logger}
}

func (w *WebhookHandler) SMSStatus(c *gin.Context) {
	var cb models.SMSStatusCallback
	if err := c.ShouldBind(&cb); err != nil {
		w.logger.Warn("unreadable SMS status callback", zap.Error(err))
		c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "Webhook received"})
		return
	}
	cb.Status = strings.ToLower(strings.TrimSpace(cb.Status))

	w.logger.Info("SMS status callback",
		zap.String("message_id", cb.MessageID),
		zap.String("status", cb.Status),
		zap.String("to", cb.To),
		zap.String("from", cb.From),
		zap.String("error_code", cb.ErrorCode))

	if w.metrics != nil {
		w.metrics.WebhookCallbacks.WithLabelValues(metrics.CallbackStatus(cb.Status)).Inc()
	}

	if w.store != nil && cb.MessageID != "" && cb.Status != "" {
		if _, err := w.store.ApplyCallback(c.Request.Context(), cb); err != nil {
			w.logger.Warn("failed to store SMS status", zap.String("message_id", cb.MessageID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "Webhook received"})
}
