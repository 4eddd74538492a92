package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.NotificationsSent.WithLabelValues("appointment_reminder", "sms", "sent").Inc()
	m.NoContact.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("appointment_reminder", "sms", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoContact))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestCallbackStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"delivered", "delivered"},
		{" Undelivered ", "undelivered"},
		{"partially_delivered", "partially_delivered"},
		{"", "unknown"},
		{"x-attacker-001", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CallbackStatus(tt.in), tt.in)
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "sent", Outcome(true, false))
	assert.Equal(t, "skipped", Outcome(false, true))
	assert.Equal(t, "failed", Outcome(false, false))
}
