// Package webhook relays lead.created envelopes to an external system.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"container_leads_backend/internal/leads/ports"
	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"
)

const (
	signatureHeader = "X-Signature"
	eventHeader     = "X-Event"
	maxErrorBody    = 512
)

// Client posts envelopes to one configured URL. Requests are signed with
// HMAC-SHA256 over the body when a secret is set.
type Client struct {
	url    string
	secret []byte
	http   *http.Client
	log    *logger.Logger
}

var _ ports.LeadWebhook = (*Client)(nil)

// NewClient returns nil when no URL is configured.
func NewClient(cfg config.WebhookConfig, log *logger.Logger) *Client {
	if !cfg.IsLeadWebhookEnabled() {
		return nil
	}
	timeout := cfg.GetLeadWebhookTimeout()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:    strings.TrimSpace(cfg.GetLeadWebhookURL()),
		secret: []byte(cfg.GetLeadWebhookSecret()),
		http:   &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Send makes exactly one attempt. Any non-2xx answer is an error.
func (c *Client) Send(ctx context.Context, envelope ports.LeadCreatedEnvelope) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal webhook envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventHeader, envelope.Event)
	if len(c.secret) > 0 {
		req.Header.Set(signatureHeader, "sha256="+Sign(c.secret, body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.WithContext(ctx).Info("lead webhook delivered", "tracking_code", envelope.TrackingCode, "status", resp.StatusCode)
	return nil
}

// Sign returns the hex HMAC-SHA256 of body. Receivers compare it against the
// X-Signature header after stripping the "sha256=" prefix.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
