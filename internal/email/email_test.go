package email

import (
	"testing"

	"container_leads_backend/platform/config"
	"container_leads_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAcknowledgement(t *testing.T) {
	subject, html, err := renderAcknowledgement(Acknowledgement{
		CustomerName: "Ana <b>López</b>",
		TrackingCode: "CNT-2026-00042",
		ServiceLabel: "Almacenamiento",
		TrackingURL:  "https://contenedores.mx/seguimiento/CNT-2026-00042",
		QuoteLines:   []QuoteLine{{Label: "Renta", Amount: "$22,950.00"}},
		QuoteTotal:   "$28,014.00",
		QRCode:       &Attachment{FileName: "qr.png", MIMEType: "image/png", Content: []byte{1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Recibimos tu solicitud CNT-2026-00042", subject)
	assert.Contains(t, html, "Tu folio de seguimiento es CNT-2026-00042")
	assert.Contains(t, html, "https://contenedores.mx/seguimiento/CNT-2026-00042")
	assert.Contains(t, html, "$28,014.00")
	assert.Contains(t, html, "código QR")
	assert.NotContains(t, html, "<b>López</b>", "customer input is escaped")
}

func TestRenderAcknowledgementWithoutQuote(t *testing.T) {
	_, html, err := renderAcknowledgement(Acknowledgement{
		CustomerName: "Luis",
		TrackingCode: "CNT-2026-00043",
		ServiceLabel: "Mudanza",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "Total")
	assert.NotContains(t, html, "código QR")
}

func TestRenderSalesAlert(t *testing.T) {
	subject, html, err := renderSalesAlert(SalesAlert{
		TrackingCode:   "CNT-2026-00042",
		ServiceLabel:   "Almacenamiento",
		CustomerName:   "Ana",
		CustomerPhone:  "6621234567",
		EstimatedValue: "$24,000.00",
		Temperature:    "hot",
		Source:         "website",
	})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo lead CNT-2026-00042: Almacenamiento", subject)
	assert.Contains(t, html, "6621234567")
	assert.Contains(t, html, "hot")
	assert.NotContains(t, html, "Correo")
}

func TestSendGridMessageCarriesAttachment(t *testing.T) {
	s := NewSendGridSender("SG.test", "ventas@contenedores.mx", "Contenedores", logger.Discard())
	msg := s.buildMessage("ana@example.mx", "hola", "<p>hola</p>", Attachment{
		Content: []byte("png"), FileName: "qr.png", MIMEType: "image/png",
	})

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "cG5n", msg.Attachments[0].Content)
	assert.Equal(t, "qr.png", msg.Attachments[0].Filename)
	assert.Equal(t, "ventas@contenedores.mx", msg.From.Address)
}

func TestSMTPMessageBuilds(t *testing.T) {
	s := NewSMTPSender("smtp.example.mx", 587, "", "", "ventas@contenedores.mx", "Contenedores")
	msg, err := s.buildMessage("ana@example.mx", "hola", "<p>hola</p>")
	require.NoError(t, err)
	assert.Equal(t, []string{"hola"}, msg.GetGenHeader("Subject"))

	_, err = s.buildMessage("not-an-email", "hola", "<p>hola</p>")
	assert.Error(t, err)
}

func TestNewSenderSelectsProvider(t *testing.T) {
	log := logger.Discard()

	assert.IsType(t, NoopSender{}, NewSender(&config.Config{EmailProvider: config.EmailProviderSMTP}, log))
	assert.False(t, Enabled(NoopSender{}))

	smtp := NewSender(&config.Config{EmailProvider: config.EmailProviderSMTP, SMTPHost: "smtp.example.mx", SMTPPort: 587}, log)
	assert.IsType(t, &SMTPSender{}, smtp)
	assert.True(t, Enabled(smtp))

	sg := NewSender(&config.Config{EmailProvider: config.EmailProviderSendGrid, SendGridAPIKey: "SG.x"}, log)
	assert.IsType(t, &SendGridSender{}, sg)
}
