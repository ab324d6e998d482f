package service

import (
	"container_leads_backend/internal/leads/domain"

	"github.com/shopspring/decimal"
)

// Estimates are for ranking leads in the sales pipeline, not for billing.
var (
	monthlyBaseEstimate  = decimal.NewFromInt(4000)
	movingEstimate       = decimal.NewFromInt(8000)
	standardModelDefault = decimal.NewFromInt(450000)
	roomUnitValue        = decimal.NewFromInt(120000)
	bathUnitValue        = decimal.NewFromInt(60000)
	fallbackEstimate     = decimal.NewFromInt(5000)
)

const (
	defaultRooms = 2
	defaultBaths = 1
)

// EstimateValue derives the opportunity value from the service details and
// the free-text budget the customer typed.
func EstimateValue(details domain.ServiceDetails, budget string) decimal.Decimal {
	switch d := details.(type) {
	case domain.StorageDetails:
		return rentalEstimate(d)
	case domain.StorageAndMovingDetails:
		return rentalEstimate(d.StorageDetails)
	case domain.MovingDetails:
		return movingEstimate
	case domain.StandardModelDetails:
		if v, ok := positiveBudget(budget); ok {
			return v
		}
		return standardModelDefault
	case domain.CustomDetails:
		if v, ok := positiveBudget(budget); ok {
			return v
		}
		rooms, baths := defaultRooms, defaultBaths
		if d.Rooms != nil && *d.Rooms >= 0 {
			rooms = *d.Rooms
		}
		if d.Baths != nil && *d.Baths >= 0 {
			baths = *d.Baths
		}
		return roomUnitValue.Mul(decimal.NewFromInt(int64(rooms))).
			Add(bathUnitValue.Mul(decimal.NewFromInt(int64(baths))))
	case domain.GeneralInquiryDetails:
		return decimal.Zero
	default:
		return fallbackEstimate
	}
}

func rentalEstimate(d domain.StorageDetails) decimal.Decimal {
	months := 1
	if d.Duration != nil && d.Duration.Months > 0 {
		months = d.Duration.Months
	}
	return monthlyBaseEstimate.Mul(decimal.NewFromInt(int64(months)))
}

func positiveBudget(raw string) (decimal.Decimal, bool) {
	v, ok := domain.ParseBudget(raw)
	if !ok || !v.IsPositive() {
		return decimal.Zero, false
	}
	return v, true
}
