// Package push delivers account notices to the user and mechanic apps.
// Android devices go through FCM, iOS devices through APNs.
package push

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoProvider = errors.New("no push provider for platform")

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

type PushProvider interface {
	SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error)
}

type NotificationRequest struct {
	Token    string            `json:"token"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Priority string            `json:"priority,omitempty"`
	Sound    string            `json:"sound,omitempty"`
}

type NotificationResponse struct {
	MessageID string `json:"messageId"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Token     string `json:"token,omitempty"`
}

type Options struct {
	FCMCredentialsFile string

	APNSKeyFile    string
	APNSKeyID      string
	APNSTeamID     string
	APNSBundleID   string
	APNSProduction bool
}

// Dispatcher routes a notification to the provider for the device platform.
type Dispatcher struct {
	providers map[Platform]PushProvider
}

func NewDispatcher(providers map[Platform]PushProvider) *Dispatcher {
	if providers == nil {
		providers = map[Platform]PushProvider{}
	}
	return &Dispatcher{providers: providers}
}

// New configures FCM and APNs from opts. A provider whose credentials are
// absent is left out and its platform is skipped at send time.
func New(ctx context.Context, opts Options) (*Dispatcher, error) {
	providers := map[Platform]PushProvider{}

	if opts.FCMCredentialsFile != "" {
		fcm, err := NewFCMProvider(ctx, opts.FCMCredentialsFile)
		if err != nil {
			return nil, err
		}
		providers[PlatformAndroid] = fcm
	}

	if opts.APNSKeyFile != "" {
		apns, err := NewAPNSProvider(opts.APNSKeyFile, opts.APNSKeyID, opts.APNSTeamID, opts.APNSBundleID, opts.APNSProduction)
		if err != nil {
			return nil, err
		}
		providers[PlatformIOS] = apns
	}

	return NewDispatcher(providers), nil
}

func (d *Dispatcher) Send(ctx context.Context, platform Platform, request *NotificationRequest) (*NotificationResponse, error) {
	provider, ok := d.providers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProvider, platform)
	}
	return provider.SendNotification(ctx, request)
}

func (d *Dispatcher) Enabled() bool {
	return len(d.providers) > 0
}
