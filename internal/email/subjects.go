package email

const (
	subjectAcknowledgementFmt = "Recibimos tu solicitud %s"
	subjectSalesAlertFmt      = "Nuevo lead %s: %s"
)
