// Package email renders and delivers the lead notification emails through
// SMTP or SendGrid.
package email

import (
	"context"
	"strings"

	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "seguimiento-CNT-2026-00042.png"
	MIMEType string // e.g. "image/png"
}

// QuoteLine is one row of the quote table in the acknowledgement email.
type QuoteLine struct {
	Label  string
	Amount string
}

// Acknowledgement is the data for the customer confirmation email.
type Acknowledgement struct {
	CustomerName string
	TrackingCode string
	ServiceLabel string
	TrackingURL  string
	QuoteLines   []QuoteLine
	QuoteTotal   string
	QRCode       *Attachment
}

// SalesAlert is the data for the internal new-lead email.
type SalesAlert struct {
	TrackingCode   string
	ServiceLabel   string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	PostalCode     string
	EstimatedValue string
	Temperature    string
	Source         string
}

type Sender interface {
	SendLeadAcknowledgement(ctx context.Context, toEmail string, data Acknowledgement) error
	SendSalesAlert(ctx context.Context, toEmail string, data SalesAlert) error
}

type NoopSender struct{}

func (NoopSender) SendLeadAcknowledgement(context.Context, string, Acknowledgement) error {
	return nil
}

func (NoopSender) SendSalesAlert(context.Context, string, SalesAlert) error {
	return nil
}

// NewSender picks the provider from configuration. Without credentials it
// returns a NoopSender and Enabled reports false.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	if strings.EqualFold(cfg.GetEmailProvider(), config.EmailProviderSendGrid) {
		return NewSendGridSender(cfg.GetSendGridAPIKey(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName(), log)
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// Enabled is false for the NoopSender.
func Enabled(s Sender) bool {
	_, noop := s.(NoopSender)
	return s != nil && !noop
}
