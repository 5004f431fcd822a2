package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

// Payload is what the sink receives for one triggering event. Recipient
// resolution and formatting beyond this are the sink's concern.
type Payload struct {
	DeviceID   string            `json:"deviceID"`
	WebhookURL string            `json:"-"`
	Risk       int               `json:"risk"`
	Alerts     []string          `json:"alerts"`
	IsPhysical bool              `json:"isPhysicalAlert"`
	Data       *models.Telemetry `json:"data"`
}

type Notifier interface {
	Send(ctx context.Context, payload *Payload) error
}

const (
	defaultTimeout = 10 * time.Second
	retryCount     = 1
	retryWait      = 2 * time.Second
)

// Webhook delivers alert payloads as JSON POSTs to a per-device webhook URL,
// with a bounded timeout and a single retry. Delivery is best-effort: the
// caller must not assume success.
type Webhook struct {
	client *resty.Client
}

func NewWebhook(timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetHeader("Content-Type", "application/json")
	return &Webhook{client: client}
}

func (w *Webhook) Send(ctx context.Context, payload *Payload) error {
	logger := common.GetLogger().Named(common.LoggerNameNotifier)

	if payload.WebhookURL == "" {
		// a device without a configured recipient is not an error
		logger.Warn("No webhook configured for device, skipping notification",
			zap.String("device_id", payload.DeviceID))
		return nil
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(payload.WebhookURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	logger.Info("Delivered alert notification",
		zap.String("device_id", payload.DeviceID),
		zap.Int("risk", payload.Risk))
	return nil
}
