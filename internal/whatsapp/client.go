// Package whatsapp sends chat messages through a GOWA-compatible gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"
	"container_leads_backend/platform/phone"
)

// ErrInvalidRecipient is returned when the number cannot be formatted to E.164.
var ErrInvalidRecipient = errors.New("whatsapp recipient is not a valid phone number")

type Client struct {
	baseURL  string
	apiKey   string
	deviceID string
	http     *http.Client
	log      *logger.Logger
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewClient returns nil when the gateway is not configured. A nil client
// accepts every message and sends nothing.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger) *Client {
	if !cfg.IsWhatsAppEnabled() {
		return nil
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.GetWhatsAppURL(), "/"),
		apiKey:   cfg.GetWhatsAppKey(),
		deviceID: cfg.GetWhatsAppDeviceID(),
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Enabled reports whether messages actually leave the process.
func (c *Client) Enabled() bool {
	return c != nil
}

// SendMessage delivers one text message. Mexican 10-digit numbers are sent
// as 52XXXXXXXXXX.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	e164 := phone.NormalizeE164(phoneNumber)
	if !strings.HasPrefix(e164, "+") {
		return ErrInvalidRecipient
	}
	recipient := strings.TrimPrefix(e164, "+")

	body, err := json.Marshal(sendRequest{Phone: recipient, Message: message})
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/send/message", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", formatAuthHeader(c.apiKey))
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.WithContext(ctx).Info("whatsapp message sent", "phone", recipient)
	return nil
}

func formatAuthHeader(apiKey string) string {
	if strings.HasPrefix(strings.ToLower(apiKey), "basic ") {
		return apiKey
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey))
}
