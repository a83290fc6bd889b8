package booking

import (
	"time"

	"github.com/rentwheels/service-rental/internal/domain"
)

// PricingStrategy calculates the total price for a rental period.
type PricingStrategy interface {
	// Calculate returns the total price for renting at the given daily
	// rate between start and end.
	Calculate(dailyRentPrice int64, rentStart, rentEnd time.Time) (int64, error)
}

// DailyRatePricing is the standard pricing model: billable days times the
// vehicle's daily rent price.
type DailyRatePricing struct{}

// NewDailyRatePricing creates the standard pricing strategy.
func NewDailyRatePricing() *DailyRatePricing {
	return &DailyRatePricing{}
}

// Calculate computes billable days × daily price. A same-day rental bills
// one day.
func (p *DailyRatePricing) Calculate(dailyRentPrice int64, rentStart, rentEnd time.Time) (int64, error) {
	if dailyRentPrice <= 0 {
		return 0, domain.NewValidationError("daily rent price must be positive")
	}
	if rentEnd.Before(rentStart) {
		return 0, domain.NewValidationError("rent end date must not be before the start date")
	}
	return BillableDays(rentStart, rentEnd) * dailyRentPrice, nil
}

// BillableDays returns the rental span rounded up to whole days, with a
// floor of one day.
func BillableDays(rentStart, rentEnd time.Time) int64 {
	span := rentEnd.Sub(rentStart)
	days := int64(span / (24 * time.Hour))
	if span%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
