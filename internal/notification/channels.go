package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"container_leads_backend/internal/email"
	"container_leads_backend/internal/events"
	"container_leads_backend/internal/pricing"
	"container_leads_backend/platform/logger"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	channelCustomerEmail    = "customer_email"
	channelCustomerWhatsApp = "customer_whatsapp"
	channelSalesEmail       = "sales_email"
	channelTeamAlert        = "team_alert"

	preferenceEmail = "email"
	qrSize          = 256
)

// TrackingURL is the public tracking page for a code.
func TrackingURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/seguimiento/" + code
}

// CustomerEmail sends the acknowledgement with a QR code of the tracking link.
type CustomerEmail struct {
	sender  email.Sender
	baseURL string
	log     *logger.Logger
}

func NewCustomerEmail(sender email.Sender, baseURL string, log *logger.Logger) *CustomerEmail {
	return &CustomerEmail{sender: sender, baseURL: baseURL, log: log}
}

func (c *CustomerEmail) Name() string { return channelCustomerEmail }

func (c *CustomerEmail) Applies(lead events.LeadCreated) bool {
	return lead.ContactEmail != ""
}

func (c *CustomerEmail) Notify(ctx context.Context, lead events.LeadCreated) bool {
	link := TrackingURL(c.baseURL, lead.TrackingCode)
	data := email.Acknowledgement{
		CustomerName: lead.ContactName,
		TrackingCode: lead.TrackingCode,
		ServiceLabel: lead.ServiceLabel,
		TrackingURL:  link,
	}
	data.QuoteLines, data.QuoteTotal = quoteLines(lead)

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		// The email still goes out without the image.
		c.log.Warn("qr code generation failed", "tracking_code", lead.TrackingCode, "error", err)
	} else {
		data.QRCode = &email.Attachment{
			Content:  png,
			FileName: "seguimiento-" + lead.TrackingCode + ".png",
			MIMEType: "image/png",
		}
	}

	if err := c.sender.SendLeadAcknowledgement(ctx, lead.ContactEmail, data); err != nil {
		c.log.Error("customer email failed", "tracking_code", lead.TrackingCode, "error", err)
		return false
	}
	return true
}

func quoteLines(lead events.LeadCreated) ([]email.QuoteLine, string) {
	switch {
	case lead.Quote != nil:
		q := lead.Quote
		lines := []email.QuoteLine{
			{Label: "Renta mensual (" + q.Model + ")", Amount: pricing.FormatMXN(q.MonthlyPrice)},
			{Label: fmt.Sprintf("Subtotal renta (%d meses)", q.DurationMonths), Amount: pricing.FormatMXN(q.CostBeforeDiscount)},
		}
		if q.DiscountAmount.IsPositive() {
			lines = append(lines, email.QuoteLine{
				Label:  "Descuento (" + q.TotalDiscountRate.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%)",
				Amount: "-" + pricing.FormatMXN(q.DiscountAmount),
			})
		}
		lines = append(lines,
			email.QuoteLine{Label: "Transporte", Amount: pricing.FormatMXN(q.TransportCost)},
			email.QuoteLine{Label: "IVA", Amount: pricing.FormatMXN(q.Tax)},
		)
		return lines, pricing.FormatMXN(q.Total)
	case lead.Purchase != nil && !lead.Purchase.NeedsManualQuote:
		p := lead.Purchase
		return []email.QuoteLine{
			{Label: "Compra " + p.Model + " (" + p.AccessType + ")", Amount: pricing.FormatMXN(p.Price)},
		}, pricing.FormatMXN(p.Price)
	default:
		return nil, ""
	}
}

// WhatsAppSender is satisfied by *whatsapp.Client.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// CustomerWhatsApp messages the customer unless they asked for email only.
type CustomerWhatsApp struct {
	client  WhatsAppSender
	baseURL string
	log     *logger.Logger
}

func NewCustomerWhatsApp(client WhatsAppSender, baseURL string, log *logger.Logger) *CustomerWhatsApp {
	return &CustomerWhatsApp{client: client, baseURL: baseURL, log: log}
}

func (c *CustomerWhatsApp) Name() string { return channelCustomerWhatsApp }

func (c *CustomerWhatsApp) Applies(lead events.LeadCreated) bool {
	return lead.ContactPhone != "" && !strings.EqualFold(lead.ContactPreference, preferenceEmail)
}

func (c *CustomerWhatsApp) Notify(ctx context.Context, lead events.LeadCreated) bool {
	if err := c.client.SendMessage(ctx, lead.ContactPhone, customerMessage(lead, c.baseURL)); err != nil {
		c.log.Error("customer whatsapp failed", "tracking_code", lead.TrackingCode, "error", err)
		return false
	}
	return true
}

func customerMessage(lead events.LeadCreated, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s, recibimos tu solicitud de %s.\n", firstName(lead.ContactName), strings.ToLower(lead.ServiceLabel))
	fmt.Fprintf(&b, "Tu código de seguimiento es *%s*.\n", lead.TrackingCode)
	if _, total := quoteLines(lead); total != "" {
		fmt.Fprintf(&b, "Cotización estimada: %s (IVA incluido).\n", total)
	}
	fmt.Fprintf(&b, "Consulta el estado en %s\n", TrackingURL(baseURL, lead.TrackingCode))
	b.WriteString("Un asesor te contactará pronto.")
	return b.String()
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

// SalesEmail alerts the sales inbox about every lead.
type SalesEmail struct {
	sender email.Sender
	to     string
	log    *logger.Logger
}

func NewSalesEmail(sender email.Sender, to string, log *logger.Logger) *SalesEmail {
	return &SalesEmail{sender: sender, to: to, log: log}
}

func (c *SalesEmail) Name() string { return channelSalesEmail }

func (c *SalesEmail) Applies(events.LeadCreated) bool { return c.to != "" }

func (c *SalesEmail) Notify(ctx context.Context, lead events.LeadCreated) bool {
	alert := email.SalesAlert{
		TrackingCode:   lead.TrackingCode,
		ServiceLabel:   lead.ServiceLabel,
		CustomerName:   lead.ContactName,
		CustomerPhone:  lead.ContactPhone,
		CustomerEmail:  lead.ContactEmail,
		PostalCode:     lead.PostalCode,
		EstimatedValue: pricing.FormatMXN(lead.EstimatedValue),
		Temperature:    deref(lead.Temperature),
		Source:         lead.Source,
	}
	if err := c.sender.SendSalesAlert(ctx, c.to, alert); err != nil {
		c.log.Error("sales email failed", "tracking_code", lead.TrackingCode, "error", err)
		return false
	}
	return true
}

// TeamAlert posts a one-line summary to a chat incoming webhook.
type TeamAlert struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

func NewTeamAlert(url string, log *logger.Logger) *TeamAlert {
	return &TeamAlert{url: url, client: &http.Client{Timeout: 10 * time.Second}, log: log}
}

func (c *TeamAlert) Name() string { return channelTeamAlert }

func (c *TeamAlert) Applies(events.LeadCreated) bool { return c.url != "" }

func (c *TeamAlert) Notify(ctx context.Context, lead events.LeadCreated) bool {
	body, err := json.Marshal(map[string]string{"text": alertText(lead)})
	if err != nil {
		c.log.Error("team alert encode failed", "tracking_code", lead.TrackingCode, "error", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.log.Error("team alert request failed", "tracking_code", lead.TrackingCode, "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("team alert failed", "tracking_code", lead.TrackingCode, "error", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("team alert rejected", "tracking_code", lead.TrackingCode, "status", resp.StatusCode)
		return false
	}
	return true
}

func alertText(lead events.LeadCreated) string {
	text := fmt.Sprintf("Nuevo lead %s: %s de %s", lead.TrackingCode, lead.ServiceLabel, lead.ContactName)
	if lead.PostalCode != "" {
		text += " (CP " + lead.PostalCode + ")"
	}
	text += ", valor estimado " + pricing.FormatMXN(lead.EstimatedValue)
	if t := deref(lead.Temperature); t != "" {
		text += " [" + t + "]"
	}
	return text
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
