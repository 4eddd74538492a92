package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franzego/maybunga-notifications/internal/models"
)

func setupStore(t *testing.T) (*DeliveryStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDeliveryStore(client, time.Hour), mr
}

func TestSaveResultAndGet(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	err := s.SaveResult(ctx, models.DeliveryResult{
		Success:   true,
		MessageID: "SM123",
		Status:    "queued",
		Provider:  models.ProviderTwilio,
		To:        "+639171234567",
		PatientID: "42",
		Type:      models.AppointmentReminder,
		Method:    models.MethodSMS,
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "SM123")
	require.NoError(t, err)
	assert.Equal(t, "queued", got.Status)
	assert.Equal(t, "42", got.PatientID)
	assert.Equal(t, models.MethodSMS, got.Method)
	assert.Equal(t, time.Hour, mr.TTL("notification:status:SM123"))
}

func TestSaveResult_DerivesStatus(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveResult(ctx, models.DeliveryResult{Success: false, MessageID: "m1", Error: "boom"}))
	got, err := s.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Equal(t, "boom", got.Error)
}

func TestSaveResult_WithoutMessageIDIsIgnored(t *testing.T) {
	s, mr := setupStore(t)

	require.NoError(t, s.SaveResult(context.Background(), models.DeliveryResult{Success: false, Error: "invalid"}))
	assert.Empty(t, mr.Keys())
}

func TestGet_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyCallback_UpdatesExisting(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveResult(ctx, models.DeliveryResult{
		Success: true, MessageID: "SM1", Status: "queued", PatientID: "42", To: "+639171234567",
	}))

	got, err := s.ApplyCallback(ctx, models.SMSStatusCallback{MessageID: "SM1", Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, "delivered", got.Status)
	assert.Equal(t, "42", got.PatientID)

	stored, err := s.Get(ctx, "SM1")
	require.NoError(t, err)
	assert.Equal(t, "delivered", stored.Status)
	assert.False(t, stored.UpdatedAt.Before(stored.CreatedAt))
}

func TestApplyCallback_CreatesUnknown(t *testing.T) {
	s, _ := setupStore(t)

	got, err := s.ApplyCallback(context.Background(), models.SMSStatusCallback{
		MessageID: "SM9", Status: "undelivered", To: "+639171234567", ErrorCode: "30003",
	})
	require.NoError(t, err)
	assert.Equal(t, "undelivered", got.Status)
	assert.Equal(t, "+639171234567", got.To)
	assert.Equal(t, "gateway error code 30003", got.Error)
	assert.Equal(t, models.ProviderTwilio, got.Provider)
}

func TestClaim(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	first, err := s.Claim(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := s.Claim(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, second)

	require.NoError(t, s.Release(ctx, "req-1"))
	again, err := s.Claim(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, again)
}

func TestStoreErrorsWhenRedisDown(t *testing.T) {
	s, mr := setupStore(t)
	mr.Close()

	_, err := s.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Ping(context.Background()))
}
