package services

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/franzego/maybunga-notifications/pkg/circuitbreaker"
)

// TwilioGateway sends SMS through the Twilio Messages API behind a circuit breaker.
type TwilioGateway struct {
	client         *twilio.RestClient
	from           string
	statusCallback string
	cb             *gobreaker.CircuitBreaker
}

func NewTwilioGateway(accountSID, authToken, from, statusCallback string, logger *zap.Logger) *TwilioGateway {
	return &TwilioGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:           from,
		statusCallback: statusCallback,
		cb:             circuitbreaker.NewCircuitBreaker("twilio-sms", logger),
	}
}

func (g *TwilioGateway) SendSMS(ctx context.Context, to, body string) (GatewayReceipt, error) {
	if err := ctx.Err(); err != nil {
		return GatewayReceipt{}, err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(g.from)
	params.SetBody(body)
	if g.statusCallback != "" {
		params.SetStatusCallback(g.statusCallback)
	}

	result, err := g.cb.Execute(func() (interface{}, error) {
		return g.client.Api.CreateMessage(params)
	})
	if err != nil {
		return GatewayReceipt{}, fmt.Errorf("twilio create message: %w", err)
	}

	var receipt GatewayReceipt
	if msg, ok := result.(*twilioApi.ApiV2010Message); ok && msg != nil {
		if msg.Sid != nil {
			receipt.MessageID = *msg.Sid
		}
		if msg.Status != nil {
			receipt.Status = fmt.Sprint(*msg.Status)
		}
	}
	return receipt, nil
}

// BreakerState reports the gateway circuit breaker state.
func (g *TwilioGateway) BreakerState() string {
	return g.cb.State().String()
}
