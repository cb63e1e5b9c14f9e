package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"cloudbasket/core/pricing"
	"cloudbasket/core/types"
)

// Columns is the tabular export header, in order
var Columns = []string{
	"Environment", "Tags", "Resource", "Service", "Quantity",
	"vCPU", "Memory", "Storage",
	"Hourly Price", "Hourly Total", "Monthly Price", "Monthly Total",
	"Note", "Attached To", "Date Created", "Date Modified",
}

// TotalLabel marks the trailing summary row
const TotalLabel = "TOTAL"

// Row is one line of the tabular export. Every field is preformatted.
type Row struct {
	Environment  string `csv:"Environment"`
	Tags         string `csv:"Tags"`
	Resource     string `csv:"Resource"`
	Service      string `csv:"Service"`
	Quantity     string `csv:"Quantity"`
	VCPU         string `csv:"vCPU"`
	Memory       string `csv:"Memory"`
	Storage      string `csv:"Storage"`
	HourlyPrice  string `csv:"Hourly Price"`
	HourlyTotal  string `csv:"Hourly Total"`
	MonthlyPrice string `csv:"Monthly Price"`
	MonthlyTotal string `csv:"Monthly Total"`
	Note         string `csv:"Note"`
	AttachedTo   string `csv:"Attached To"`
	DateCreated  string `csv:"Date Created"`
	DateModified string `csv:"Date Modified"`
}

// Values returns the row cells in Columns order
func (r Row) Values() []string {
	return []string{
		r.Environment, r.Tags, r.Resource, r.Service, r.Quantity,
		r.VCPU, r.Memory, r.Storage,
		r.HourlyPrice, r.HourlyTotal, r.MonthlyPrice, r.MonthlyTotal,
		r.Note, r.AttachedTo, r.DateCreated, r.DateModified,
	}
}

// Rows flattens doc into one row per line item plus a TOTAL row
func Rows(doc *Document, opts Options) []Row {
	created := formatDate(doc.DateCreated)
	modified := formatDate(doc.DateModified)

	rows := make([]Row, 0, len(doc.Items)+1)
	for _, li := range doc.Items {
		if li == nil || li.Item == nil {
			continue
		}
		unit := pricing.Hourly(li)
		line := pricing.LineTotal(li)

		row := Row{
			Environment:  opts.Environment,
			Tags:         opts.Tags,
			Resource:     li.Identity(),
			Service:      serviceLabel(li.Kind()),
			Quantity:     strconv.Itoa(li.Quantity),
			HourlyPrice:  hourlyString(unit),
			HourlyTotal:  hourlyString(line),
			MonthlyPrice: monthlyString(pricing.Monthly(unit)),
			MonthlyTotal: monthlyString(pricing.Monthly(line)),
			Note:         li.Note,
			AttachedTo:   li.AttachedTo,
			DateCreated:  created,
			DateModified: modified,
		}

		switch it := li.Item.(type) {
		case types.Compute:
			row.VCPU = strconv.Itoa(it.VCPU)
			row.Memory = gib(it.MemoryGiB)
			row.Storage = it.Storage
		case types.Volume:
			row.Storage = fmt.Sprintf("%d GiB", li.SizeGB)
		case types.Database:
			row.VCPU = strconv.Itoa(it.VCPU)
			row.Memory = gib(it.MemoryGiB)
			if it.StorageGB > 0 {
				row.Storage = fmt.Sprintf("%d GiB", it.StorageGB)
			}
		}
		rows = append(rows, row)
	}

	total := pricing.Total(doc.Items)
	rows = append(rows, Row{
		Environment:  opts.Environment,
		Tags:         opts.Tags,
		Resource:     TotalLabel,
		HourlyTotal:  hourlyString(total),
		MonthlyTotal: monthlyString(pricing.Monthly(total)),
		DateCreated:  created,
		DateModified: modified,
	})
	return rows
}

func serviceLabel(k types.Kind) string {
	switch k {
	case types.KindCompute:
		return "EC2"
	case types.KindVolume:
		return "EBS"
	case types.KindDatabase:
		return "RDS"
	}
	return ""
}

func hourlyString(d decimal.Decimal) string {
	return d.StringFixed(4)
}

func monthlyString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func gib(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " GiB"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
