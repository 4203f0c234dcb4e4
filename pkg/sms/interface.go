// Package sms sends account notices to users and mechanics by text message.
package sms

import (
	"context"
	"fmt"
)

type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
}

type MessageType string

const (
	MessageTypeTransactional MessageType = "transactional"
	MessageTypePromotional   MessageType = "promotional"
)

type SMSRequest struct {
	To      string      `json:"to"`
	From    string      `json:"from"`
	Message string      `json:"message"`
	Type    MessageType `json:"type"`
}

type SMSResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type Options struct {
	Provider string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	AWSRegion   string
	AWSSenderID string
}

// New builds the provider named by opts.Provider. "none" and "" return a
// provider that accepts and drops every message.
func New(ctx context.Context, opts Options) (SMSProvider, error) {
	switch opts.Provider {
	case "", "none":
		return NoopProvider{}, nil
	case "twilio":
		return NewTwilioProvider(opts.TwilioAccountSID, opts.TwilioAuthToken, opts.TwilioFromNumber), nil
	case "sns", "aws":
		return NewAWSSNSProvider(ctx, opts.AWSRegion, opts.AWSSenderID)
	default:
		return nil, fmt.Errorf("unknown sms provider %q", opts.Provider)
	}
}

type NoopProvider struct{}

func (NoopProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	return &SMSResponse{Status: "skipped"}, nil
}
