package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"container_leads_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfig struct {
	url, key, device string
}

func (s stubConfig) GetWhatsAppURL() string      { return s.url }
func (s stubConfig) GetWhatsAppKey() string      { return s.key }
func (s stubConfig) GetWhatsAppDeviceID() string { return s.device }
func (s stubConfig) IsWhatsAppEnabled() bool     { return s.url != "" && s.key != "" }

func TestNilClientIsNoop(t *testing.T) {
	c := NewClient(stubConfig{}, logger.Discard())
	assert.False(t, c.Enabled())
	assert.NoError(t, c.SendMessage(context.Background(), "6621234567", "hola"))
}

func TestSendMessage(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send/message", r.URL.Path)
		assert.Equal(t, "Basic dXNlcjpwYXNz", r.Header.Get("Authorization"))
		assert.Equal(t, "dev-1", r.Header.Get("X-Device-Id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(stubConfig{url: srv.URL + "/", key: "user:pass", device: "dev-1"}, logger.Discard())
	require.NoError(t, c.SendMessage(context.Background(), "55 1234 5678", "Tu folio es CNT-2026-00042"))

	assert.Equal(t, "525512345678", got.Phone)
	assert.Equal(t, "Tu folio es CNT-2026-00042", got.Message)
}

func TestSendMessageRejectsBadNumber(t *testing.T) {
	c := NewClient(stubConfig{url: "http://127.0.0.1:1", key: "k"}, logger.Discard())
	assert.ErrorIs(t, c.SendMessage(context.Background(), "123", "hola"), ErrInvalidRecipient)
}

func TestSendMessageGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "device offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(stubConfig{url: srv.URL, key: "k"}, logger.Discard())
	err := c.SendMessage(context.Background(), "6621234567", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device offline")
}
