package domain

import "container_leads_backend/internal/pricing"

// ServiceDetails is the per-service-type attribute bag. Each variant carries
// only the fields that make sense for its service type.
type ServiceDetails interface {
	ServiceType() ServiceType
	isServiceDetails()
}

// StorageDetails describes a container rental.
type StorageDetails struct {
	Size     string                  `json:"size,omitempty"`
	Duration *pricing.Duration       `json:"duration,omitempty"`
	Location string                  `json:"location,omitempty"`
	Quote    *pricing.QuoteBreakdown `json:"quote,omitempty"`
}

// MovingDetails describes a move using the operator's containers.
type MovingDetails struct {
	OriginPostalCode      string `json:"originPostalCode,omitempty"`
	DestinationPostalCode string `json:"destinationPostalCode,omitempty"`
	MoveDate              string `json:"moveDate,omitempty"`
	Items                 string `json:"items,omitempty"`
}

// StorageAndMovingDetails combines a move with a rental at the destination.
type StorageAndMovingDetails struct {
	StorageDetails
	MovingDetails
}

// StandardModelDetails is a catalog container home.
type StandardModelDetails struct {
	Model   string `json:"model,omitempty"`
	HasLand *bool  `json:"hasLand,omitempty"`
}

// CustomDetails is a bespoke container build.
type CustomDetails struct {
	Rooms        *int     `json:"rooms,omitempty"`
	Baths        *int     `json:"baths,omitempty"`
	SquareMeters *float64 `json:"squareMeters,omitempty"`
	Description  string   `json:"description,omitempty"`
	HasLand      *bool    `json:"hasLand,omitempty"`
}

// GeneralInquiryDetails holds free text and, when the customer asked to buy
// a container, the purchase quote that was shown.
type GeneralInquiryDetails struct {
	Message  string                 `json:"message,omitempty"`
	Purchase *pricing.PurchaseQuote `json:"purchase,omitempty"`
}

func (StorageDetails) ServiceType() ServiceType          { return ServiceStorage }
func (MovingDetails) ServiceType() ServiceType           { return ServiceMoving }
func (StorageAndMovingDetails) ServiceType() ServiceType { return ServiceStorageAndMoving }
func (StandardModelDetails) ServiceType() ServiceType    { return ServiceStandardModel }
func (CustomDetails) ServiceType() ServiceType           { return ServiceCustom }
func (GeneralInquiryDetails) ServiceType() ServiceType   { return ServiceGeneralInquiry }

func (StorageDetails) isServiceDetails()          {}
func (MovingDetails) isServiceDetails()           {}
func (StorageAndMovingDetails) isServiceDetails() {}
func (StandardModelDetails) isServiceDetails()    {}
func (CustomDetails) isServiceDetails()           {}
func (GeneralInquiryDetails) isServiceDetails()   {}

// EmptyDetails returns the zero variant for a service type.
func EmptyDetails(t ServiceType) ServiceDetails {
	switch t {
	case ServiceStorage:
		return StorageDetails{}
	case ServiceMoving:
		return MovingDetails{}
	case ServiceStorageAndMoving:
		return StorageAndMovingDetails{}
	case ServiceStandardModel:
		return StandardModelDetails{}
	case ServiceCustom:
		return CustomDetails{}
	default:
		return GeneralInquiryDetails{}
	}
}

// RentalQuote returns the rental breakdown carried by storage variants.
func RentalQuote(d ServiceDetails) *pricing.QuoteBreakdown {
	switch v := d.(type) {
	case StorageDetails:
		return v.Quote
	case StorageAndMovingDetails:
		return v.Quote
	default:
		return nil
	}
}
