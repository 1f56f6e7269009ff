// Package twilioapi wraps the Twilio REST client for live call mutation.
package twilioapi

import (
	"context"

	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Client updates in-progress calls with replacement TwiML documents.
type Client struct {
	rest *twilio.RestClient
}

// NewClient creates a Twilio REST client from account credentials.
func NewClient(accountSID, authToken string) *Client {
	return &Client{
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
	}
}

// UpdateLiveCall replaces the pending control document of an already-answered
// call. This is the only channel the caller ever hears a real answer on, so
// failures are surfaced for the orchestrator to log; there is no retry (a
// failed update usually means the call already ended).
func (c *Client) UpdateLiveCall(ctx context.Context, callSID, twimlDoc string) error {
	params := &api.UpdateCallParams{}
	params.SetTwiml(twimlDoc)

	if _, err := c.rest.Api.UpdateCall(callSID, params); err != nil {
		return err
	}

	logger.Base().Info("live call updated", zap.String("call_sid", callSID))
	return nil
}
