// Package store caches delivery statuses and idempotency keys in Redis.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/franzego/maybunga-notifications/internal/models"
)

var ErrNotFound = errors.New("delivery status not found")

const defaultTTL = 24 * time.Hour

type DeliveryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeliveryStore(client *redis.Client, ttl time.Duration) *DeliveryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &DeliveryStore{client: client, ttl: ttl}
}

func statusKey(messageID string) string {
	return fmt.Sprintf("notification:status:%s", messageID)
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("notification:idempotency:%s", key)
}

// SaveResult records a send outcome under its message id. Results without an
// id (validation failures, skips) are not stored.
func (s *DeliveryStore) SaveResult(ctx context.Context, r models.DeliveryResult) error {
	if r.MessageID == "" {
		return nil
	}
	now := time.Now()
	status := r.Status
	if status == "" {
		status = "sent"
		if !r.Success {
			status = "failed"
		}
	}
	return s.put(ctx, models.DeliveryStatus{
		MessageID: r.MessageID,
		Method:    r.Method,
		Provider:  r.Provider,
		Status:    status,
		To:        r.To,
		PatientID: r.PatientID,
		Type:      r.Type,
		Error:     r.Error,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// ApplyCallback folds a gateway delivery receipt into the stored status,
// creating the entry when the send predates the cache.
func (s *DeliveryStore) ApplyCallback(ctx context.Context, cb models.SMSStatusCallback) (models.DeliveryStatus, error) {
	now := time.Now()
	status, err := s.Get(ctx, cb.MessageID)
	switch {
	case errors.Is(err, ErrNotFound):
		status = models.DeliveryStatus{
			MessageID: cb.MessageID,
			Method:    models.MethodSMS,
			Provider:  models.ProviderTwilio,
			CreatedAt: now,
		}
	case err != nil:
		return models.DeliveryStatus{}, err
	}

	status.Status = cb.Status
	if status.To == "" {
		status.To = cb.To
	}
	if cb.ErrorCode != "" {
		status.Error = "gateway error code " + cb.ErrorCode
	}
	status.UpdatedAt = now
	if err := s.put(ctx, status); err != nil {
		return models.DeliveryStatus{}, err
	}
	return status, nil
}

func (s *DeliveryStore) Get(ctx context.Context, messageID string) (models.DeliveryStatus, error) {
	raw, err := s.client.Get(ctx, statusKey(messageID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DeliveryStatus{}, ErrNotFound
	}
	if err != nil {
		return models.DeliveryStatus{}, fmt.Errorf("failed to read delivery status: %w", err)
	}
	var status models.DeliveryStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return models.DeliveryStatus{}, fmt.Errorf("failed to decode delivery status: %w", err)
	}
	return status, nil
}

// Claim reserves an idempotency key. It reports false when the key was
// already claimed within the TTL.
func (s *DeliveryStore) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKey(key), "processing", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return ok, nil
}

// Release frees an idempotency key so the request can be retried.
func (s *DeliveryStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (s *DeliveryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *DeliveryStore) put(ctx context.Context, status models.DeliveryStatus) error {
	by, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, statusKey(status.MessageID), by, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store delivery status: %w", err)
	}
	return nil
}
