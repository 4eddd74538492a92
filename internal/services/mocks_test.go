package services

import (
	"context"
	"math/rand"

	"github.com/stretchr/testify/mock"

	"github.com/franzego/maybunga-notifications/internal/models"
)

// Mock SMS gateway
type MockSMSGateway struct {
	mock.Mock
}

func (m *MockSMSGateway) SendSMS(ctx context.Context, to, body string) (GatewayReceipt, error) {
	args := m.Called(ctx, to, body)
	return args.Get(0).(GatewayReceipt), args.Error(1)
}

// Mock mail transport
type MockMailTransport struct {
	mock.Mock
}

func (m *MockMailTransport) Send(ctx context.Context, msg OutgoingEmail) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// Mock SMS channel
type MockSMSChannel struct {
	mock.Mock
}

func (m *MockSMSChannel) Send(ctx context.Context, recipient, body string, opts models.SendOptions) models.DeliveryResult {
	args := m.Called(ctx, recipient, body, opts)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockSMSChannel) SendBulk(ctx context.Context, recipients []models.SMSRecipient, body string, opts models.SendOptions) []models.DeliveryResult {
	args := m.Called(ctx, recipients, body, opts)
	return args.Get(0).([]models.DeliveryResult)
}

func (m *MockSMSChannel) Status() models.ChannelStatus {
	args := m.Called()
	return args.Get(0).(models.ChannelStatus)
}

// Mock email channel
type MockEmailChannel struct {
	mock.Mock
}

func (m *MockEmailChannel) Send(ctx context.Context, to, subject, content string, opts models.SendOptions) models.DeliveryResult {
	args := m.Called(ctx, to, subject, content, opts)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockEmailChannel) SendBulk(ctx context.Context, recipients []models.EmailRecipient, subject, content string, opts models.SendOptions) []models.DeliveryResult {
	args := m.Called(ctx, recipients, subject, content, opts)
	return args.Get(0).([]models.DeliveryResult)
}

func (m *MockEmailChannel) Status() models.ChannelStatus {
	args := m.Called()
	return args.Get(0).(models.ChannelStatus)
}

// instantSimulator never sleeps and fails every send when failing is true.
func instantSimulator(failing bool) *Simulator {
	rate := 0.0
	if failing {
		rate = 1
	}
	return NewSimulator(rand.New(rand.NewSource(1)), 0, 0, rate)
}
