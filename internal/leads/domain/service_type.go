// Package domain provides core business rules for the leads bounded context.
package domain

import "strings"

// ServiceType is what the customer is asking for.
type ServiceType string

const (
	ServiceStorage          ServiceType = "storage"
	ServiceMoving           ServiceType = "moving"
	ServiceStorageAndMoving ServiceType = "storage-and-moving"
	ServiceStandardModel    ServiceType = "standard-model"
	ServiceCustom           ServiceType = "custom"
	ServiceGeneralInquiry   ServiceType = "general-inquiry"
)

var serviceLabels = map[ServiceType]string{
	ServiceStorage:          "Renta de almacenamiento",
	ServiceMoving:           "Mudanza",
	ServiceStorageAndMoving: "Almacenamiento y mudanza",
	ServiceStandardModel:    "Casa contenedor modelo estándar",
	ServiceCustom:           "Proyecto personalizado",
	ServiceGeneralInquiry:   "Consulta general",
}

// ParseServiceType normalizes case and whitespace. ok is false for unknown values.
func ParseServiceType(raw string) (ServiceType, bool) {
	t := ServiceType(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.Valid()
}

func (t ServiceType) Valid() bool {
	_, ok := serviceLabels[t]
	return ok
}

// Label is the Spanish display name used in messages and emails.
func (t ServiceType) Label() string {
	if label, ok := serviceLabels[t]; ok {
		return label
	}
	return string(t)
}

// NeedsRentalQuote reports whether intake computes a rental breakdown.
func (t ServiceType) NeedsRentalQuote() bool {
	return t == ServiceStorage || t == ServiceStorageAndMoving
}

// RequiresLandAnswer reports whether the customer must say if they own land.
func (t ServiceType) RequiresLandAnswer() bool {
	return t == ServiceStandardModel || t == ServiceCustom
}
