package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/queue"
)

type HealthHandler struct {
	notifier  interface{ Status() models.AggregateStatus }
	store     StatusStore
	publisher queue.EventPublisher
	version   string
}

// NewHealthHandler takes optional store and publisher; nil means the
// dependency is disabled rather than down.
func NewHealthHandler(
	notifier interface{ Status() models.AggregateStatus },
	statusStore StatusStore,
	publisher queue.EventPublisher,
	version string,
) *HealthHandler {
	return &HealthHandler{
		notifier:  notifier,
		store:     statusStore,
		publisher: publisher,
		version:   version,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := h.notifier.Status()

	// SMS is always usable: without credentials it runs the simulator
	switch {
	case status.SMS.Ready && status.SMS.Configured:
		checks["sms"] = "healthy"
	case status.SMS.Ready:
		checks["sms"] = "degraded"
	default:
		checks["sms"] = "unhealthy"
	}

	if status.Email.Ready {
		checks["email"] = "healthy"
	} else {
		checks["email"] = "degraded"
	}

	if h.store == nil {
		checks["redis"] = "disabled"
	} else if err := h.store.Ping(ctx); err == nil {
		checks["redis"] = "healthy"
	} else {
		checks["redis"] = "degraded"
	}

	if h.publisher == nil {
		checks["rabbitmq"] = "disabled"
	} else if h.publisher.IsConnected() {
		checks["rabbitmq"] = "healthy"
	} else {
		checks["rabbitmq"] = "degraded"
	}

	// one ready channel is enough to keep serving
	overallStatus := "healthy"
	for _, s := range checks {
		if s == "unhealthy" || s == "degraded" {
			overallStatus = "degraded"
		}
	}
	if !status.SMS.Ready && !status.Email.Ready {
		overallStatus = "unhealthy"
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
		"version":   h.version,
	})
}
