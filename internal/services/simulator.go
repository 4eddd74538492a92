package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSimulatedFailure = errors.New("simulated SMS delivery failure")

// GatewayReceipt is what an SMS provider acknowledges for one message.
type GatewayReceipt struct {
	MessageID string
	Status    string
}

// Simulator stands in for the SMS gateway when no real credentials are set. It
// waits a random delay and fails a configurable share of sends.
type Simulator struct {
	mu          sync.Mutex
	rnd         *rand.Rand
	minDelay    time.Duration
	maxDelay    time.Duration
	failureRate float64
}

// NewSimulator builds a simulator. A nil rnd is seeded from the clock; tests
// pass a seeded source and a 0 or 1 failure rate.
func NewSimulator(rnd *rand.Rand, minDelay, maxDelay time.Duration, failureRate float64) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Simulator{
		rnd:         rnd,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		failureRate: failureRate,
	}
}

// SendSMS simulates a gateway call.
func (s *Simulator) SendSMS(ctx context.Context, to, body string) (GatewayReceipt, error) {
	delay, fail := s.roll()
	if err := sleepCtx(ctx, delay); err != nil {
		return GatewayReceipt{}, err
	}
	if fail {
		return GatewayReceipt{}, ErrSimulatedFailure
	}
	return GatewayReceipt{
		MessageID: "mock_" + uuid.NewString(),
		Status:    "sent",
	}, nil
}

func (s *Simulator) roll() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delay := s.minDelay
	if spread := s.maxDelay - s.minDelay; spread > 0 {
		delay += time.Duration(s.rnd.Int63n(int64(spread) + 1))
	}
	return delay, s.rnd.Float64() < s.failureRate
}
