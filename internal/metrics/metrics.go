// Package metrics provides Prometheus collectors for notification delivery.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all delivery metrics
type Metrics struct {
	NotificationsSent  *prometheus.CounterVec
	ChannelSends       *prometheus.CounterVec
	FallbacksTriggered *prometheus.CounterVec
	NoContact          prometheus.Counter
	SimulatedSends     prometheus.Counter
	BulkDuration       *prometheus.HistogramVec
	WebhookCallbacks   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Routed notifications by type, method and outcome",
		}, []string{"type", "method", "outcome"}),
		ChannelSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_channel_sends_total",
			Help: "Channel-level send attempts by channel, provider and outcome",
		}, []string{"channel", "provider", "outcome"}),
		FallbacksTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_fallbacks_total",
			Help: "Router fallbacks by primary method and outcome",
		}, []string{"primary", "outcome"}),
		NoContact: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_no_contact_total",
			Help: "Patients without a usable phone or email",
		}),
		SimulatedSends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_sms_simulated_total",
			Help: "SMS sends served by the mock sender",
		}),
		BulkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notification_bulk_duration_seconds",
			Help:    "Bulk send duration per channel",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"channel"}),
		WebhookCallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_sms_status_callbacks_total",
			Help: "Delivery status callbacks received from the SMS gateway",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.NotificationsSent,
		m.ChannelSends,
		m.FallbacksTriggered,
		m.NoContact,
		m.SimulatedSends,
		m.BulkDuration,
		m.WebhookCallbacks,
	)

	return m
}

// Outcome maps a send result to a label value.
func Outcome(success, skipped bool) string {
	switch {
	case success:
		return "sent"
	case skipped:
		return "skipped"
	default:
		return "failed"
	}
}

var callbackStatuses = map[string]bool{
	"accepted": true, "scheduled": true, "queued": true, "sending": true,
	"sent": true, "delivered": true, "undelivered": true, "failed": true,
	"receiving": true, "received": true, "read": true, "canceled": true,
	"partially_delivered": true,
}

// CallbackStatus maps a gateway status onto the closed label set. Empty input
// is "unknown", anything unrecognized is "other".
func CallbackStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	switch {
	case status == "":
		return "unknown"
	case callbackStatuses[status]:
		return status
	default:
		return "other"
	}
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
