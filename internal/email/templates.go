package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type acknowledgementEmailData struct {
	baseEmailData
	Acknowledgement
	HasQRCode bool
}

type salesAlertEmailData struct {
	baseEmailData
	SalesAlert
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderAcknowledgement(data Acknowledgement) (subject, html string, err error) {
	html, err = renderEmailTemplate("lead_acknowledgement.html", acknowledgementEmailData{
		baseEmailData: baseEmailData{
			Title:      "Recibimos tu solicitud",
			Heading:    "¡Gracias por contactarnos!",
			Subheading: "Tu folio de seguimiento es " + data.TrackingCode,
			CTALabel:   "Consultar mi solicitud",
			CTAURL:     data.TrackingURL,
		},
		Acknowledgement: data,
		HasQRCode:       data.QRCode != nil,
	})
	return fmt.Sprintf(subjectAcknowledgementFmt, data.TrackingCode), html, err
}

func renderSalesAlert(data SalesAlert) (subject, html string, err error) {
	html, err = renderEmailTemplate("sales_alert.html", salesAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nuevo lead",
			Heading: "Nuevo lead " + data.TrackingCode,
		},
		SalesAlert: data,
	})
	return fmt.Sprintf(subjectSalesAlertFmt, data.TrackingCode, data.ServiceLabel), html, err
}
