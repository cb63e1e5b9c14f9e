// Package catalog - Catalog validation
// Rules run on every converted record; the first failing rule rejects it.
package catalog

import (
	"fmt"

	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(types.CatalogItem) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateIdentity,
		validatePrice,
	}
}

// validateIdentity ensures every item can be addressed
func validateIdentity(item types.CatalogItem) error {
	if item.Identity() == "" {
		return fmt.Errorf("missing identity")
	}
	return nil
}

// validatePrice ensures the price field parses to a non-negative number
func validatePrice(item types.CatalogItem) error {
	switch it := item.(type) {
	case types.Compute:
		if _, ok := pricing.ParseRate(it.HourlyRate); !ok {
			return fmt.Errorf("unparsable hourly rate %q", it.HourlyRate)
		}
		if it.ReservedHourlyRate != "" {
			if _, ok := pricing.ParseRate(it.ReservedHourlyRate); !ok {
				return fmt.Errorf("unparsable reserved hourly rate %q", it.ReservedHourlyRate)
			}
		}
	case types.Database:
		if _, ok := pricing.ParseRate(it.HourlyRate); !ok {
			return fmt.Errorf("unparsable hourly rate %q", it.HourlyRate)
		}
	case types.Volume:
		if it.PricePerGBMonth.IsNegative() {
			return fmt.Errorf("negative price per GB-month %s", it.PricePerGBMonth)
		}
	}
	return nil
}
