// internal/app/system/upstream/notifier.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/alerts"
	"go.uber.org/zap"
)

// WebhookNotifier POSTs alert payloads to a webhook. It implements
// alerts.Notifier.
type WebhookNotifier struct {
	url  string
	http *http.Client
}

// NewWebhookNotifier creates a notifier that delivers to url.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:  url,
		http: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Notify delivers one alert payload as JSON.
func (n *WebhookNotifier) Notify(ctx context.Context, alert alerts.Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned %s", resp.Status)
	}
	return nil
}

// LogNotifier writes alert payloads to the log instead of delivering
// them. Used when no webhook is configured, so sweeps stay observable in
// environments without a delivery target.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

// Notify logs the alert and reports success.
func (n *LogNotifier) Notify(_ context.Context, alert alerts.Alert) error {
	n.log.Info("inactivity alert (no webhook configured)",
		zap.String("guild_id", alert.GuildID),
		zap.String("destination", alert.Destination),
		zap.Int("threshold_days", alert.ThresholdDays),
		zap.Int("flagged", len(alert.Lines)),
		zap.Time("at", time.Now().UTC()))
	return nil
}
