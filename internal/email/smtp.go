package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlContent string, attachments ...Attachment) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg, err := s.buildMessage(toEmail, subject, htmlContent, attachments...)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadAcknowledgement(ctx context.Context, toEmail string, data Acknowledgement) error {
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

func (s *SMTPSender) SendSalesAlert(ctx context.Context, toEmail string, data SalesAlert) error {
	subject, content, err := renderSalesAlert(data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
