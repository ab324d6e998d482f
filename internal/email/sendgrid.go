package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"container_leads_backend/platform/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *logger.Logger
}

var _ Sender = (*SendGridSender)(nil)

func NewSendGridSender(apiKey, fromEmail, fromName string, log *logger.Logger) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       log,
	}
}

func (s *SendGridSender) buildMessage(toEmail, subject, htmlContent string, attachments ...Attachment) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlContent)

	for _, att := range attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		a.SetType(att.MIMEType)
		a.SetFilename(att.FileName)
		a.SetDisposition("attachment")
		message.AddAttachment(a)
	}
	return message
}

func (s *SendGridSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	message := s.buildMessage(toEmail, subject, htmlContent, attachments...)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		s.log.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "email", toEmail)
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}

func (s *SendGridSender) SendLeadAcknowledgement(ctx context.Context, toEmail string, data Acknowledgement) error {
	subject, content, err := renderAcknowledgement(data)
	if err != nil {
		return err
	}
	var attachments []Attachment
	if data.QRCode != nil {
		attachments = append(attachments, *data.QRCode)
	}
	return s.send(ctx, toEmail, subject, content, attachments...)
}

func (s *SendGridSender) SendSalesAlert(ctx context.Context, toEmail string, data SalesAlert) error {
	subject, content, err := renderSalesAlert(data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
