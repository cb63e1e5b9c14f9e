// Package pricing - Hourly price normalization
// Every catalog price unit is reduced to USD per hour before aggregation.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudbasket/core/types"
	"cloudbasket/internal/logging"
)

var (
	// DaysPerMonth is the single month length used for every projection
	DaysPerMonth = decimal.RequireFromString("30.44")

	// HoursPerDay is 24
	HoursPerDay = decimal.NewFromInt(24)

	// HoursPerMonth is HoursPerDay * DaysPerMonth (730.56)
	HoursPerMonth = HoursPerDay.Mul(DaysPerMonth)

	// HoursPerYear is HoursPerDay * 365
	HoursPerYear = HoursPerDay.Mul(decimal.NewFromInt(365))
)

// ParseRate parses a published rate string.
// Blank, malformed and negative rates yield zero and ok=false.
func ParseRate(s string) (rate decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// Hourly returns the hourly cost of one unit of a line item, before quantity.
// It never fails: unparsable rates count as zero and are logged.
func Hourly(li *types.LineItem) decimal.Decimal {
	if li == nil {
		return decimal.Zero
	}
	return hourly(li.Item, li.SizeGB)
}

func hourly(item types.CatalogItem, sizeGB int) decimal.Decimal {
	switch it := item.(type) {
	case types.Compute:
		return rateOrZero(it.HourlyRate, it.Kind(), it.InstanceType)
	case types.Database:
		return rateOrZero(it.HourlyRate, it.Kind(), it.InstanceType)
	case types.Volume:
		return VolumeHourly(it, sizeGB)
	default:
		return decimal.Zero
	}
}

// VolumeHourly converts a per-GB-month price for sizeGB into an hourly rate
func VolumeHourly(v types.Volume, sizeGB int) decimal.Decimal {
	if sizeGB <= 0 || v.PricePerGBMonth.IsNegative() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sizeGB)).Mul(v.PricePerGBMonth).Div(HoursPerMonth)
}

// CatalogHourly prices a bare catalog item; volumes are priced per GB
func CatalogHourly(item types.CatalogItem) decimal.Decimal {
	return hourly(item, 1)
}

// ReservedHourly returns the reserved hourly rate of a compute line,
// falling back to zero for other variants or when none is published.
func ReservedHourly(li *types.LineItem) decimal.Decimal {
	if li == nil {
		return decimal.Zero
	}
	c, ok := li.Item.(types.Compute)
	if !ok || c.ReservedHourlyRate == "" {
		return decimal.Zero
	}
	return rateOrZero(c.ReservedHourlyRate, c.Kind(), c.InstanceType)
}

// LineTotal is Hourly(li) * quantity
func LineTotal(li *types.LineItem) decimal.Decimal {
	if li == nil {
		return decimal.Zero
	}
	return Hourly(li).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Total sums LineTotal over items. Attached volumes contribute on their own.
func Total(items []*types.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(LineTotal(li))
	}
	return total
}

// Monthly projects an hourly amount over one month
func Monthly(hourly decimal.Decimal) decimal.Decimal {
	return hourly.Mul(HoursPerMonth)
}

// Yearly projects an hourly amount over one year
func Yearly(hourly decimal.Decimal) decimal.Decimal {
	return hourly.Mul(HoursPerYear)
}

func rateOrZero(raw string, kind types.Kind, identity string) decimal.Decimal {
	rate, ok := ParseRate(raw)
	if !ok {
		logging.Warn("unparsable hourly rate, pricing as zero",
			zap.String("kind", kind.String()),
			zap.String("identity", identity),
			zap.String("rate", raw),
		)
	}
	return rate
}
