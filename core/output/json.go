package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
)

// Snapshot is the JSON export of a basket. Totals are recomputed from the
// items at export time and carried at full precision.
type Snapshot struct {
	Name         string            `json:"name"`
	Items        []*types.LineItem `json:"items"`
	HourlyTotal  decimal.Decimal   `json:"hourlyTotal"`
	MonthlyTotal decimal.Decimal   `json:"monthlyTotal"`
	YearlyTotal  decimal.Decimal   `json:"yearlyTotal"`
	DateCreated  time.Time         `json:"dateCreated"`
	DateModified time.Time         `json:"dateModified"`
	ExportedAt   time.Time         `json:"exportedAt"`
}

// NewSnapshot builds the JSON export of doc
func NewSnapshot(doc *Document, opts Options) *Snapshot {
	hourly := pricing.Total(doc.Items)
	items := doc.Items
	if items == nil {
		items = []*types.LineItem{}
	}
	return &Snapshot{
		Name:         doc.Name,
		Items:        items,
		HourlyTotal:  hourly,
		MonthlyTotal: pricing.Monthly(hourly),
		YearlyTotal:  pricing.Yearly(hourly),
		DateCreated:  doc.DateCreated,
		DateModified: doc.DateModified,
		ExportedAt:   opts.now(),
	}
}

// JSONFormatter renders a Snapshot
type JSONFormatter struct{}

func (f *JSONFormatter) Format() Format { return FormatJSON }

func (f *JSONFormatter) ContentType() string { return "application/json" }

func (f *JSONFormatter) Render(w io.Writer, doc *Document, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewSnapshot(doc, opts))
}
