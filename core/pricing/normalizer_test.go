package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cloudbasket/core/types"
	"cloudbasket/internal/logging"
)

func approx(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	if got.Sub(w).Abs().GreaterThan(decimal.RequireFromString("0.00001")) {
		t.Errorf("%s: expected ~%s, got %s", label, want, got.String())
	}
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	prev := logging.Logger
	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(prev) })
	return logs
}

func TestHoursPerMonthConstant(t *testing.T) {
	if !HoursPerMonth.Equal(decimal.RequireFromString("730.56")) {
		t.Errorf("expected 730.56 hours per month, got %s", HoursPerMonth)
	}
}

func TestHourly(t *testing.T) {
	tests := []struct {
		name string
		item *types.LineItem
		want string
	}{
		{
			name: "compute uses hourly rate",
			item: &types.LineItem{Item: types.Compute{InstanceType: "m5.large", HourlyRate: "0.096"}, Quantity: 1},
			want: "0.096",
		},
		{
			name: "database uses hourly rate",
			item: &types.LineItem{Item: types.Database{InstanceType: "db.t3.micro", HourlyRate: "0.017"}, Quantity: 1},
			want: "0.017",
		},
		{
			name: "volume converts GB-month to hourly",
			item: &types.LineItem{Item: types.Volume{VolumeType: "gp3", PricePerGBMonth: decimal.RequireFromString("0.08")}, SizeGB: 100, Quantity: 1},
			want: "0.01095",
		},
		{
			name: "volume without size is free",
			item: &types.LineItem{Item: types.Volume{VolumeType: "gp3", PricePerGBMonth: decimal.RequireFromString("0.08")}, Quantity: 1},
			want: "0",
		},
		{
			name: "dollar prefix tolerated",
			item: &types.LineItem{Item: types.Compute{InstanceType: "t3.micro", HourlyRate: "$0.0104"}, Quantity: 1},
			want: "0.0104",
		},
		{
			name: "nil item is free",
			item: &types.LineItem{Quantity: 1},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approx(t, tt.name, Hourly(tt.item), tt.want)
		})
	}
}

func TestMalformedRateIsZeroAndLogged(t *testing.T) {
	logs := observeLogs(t)

	for _, raw := range []string{"", "n/a", "-1", "0.1.2"} {
		li := &types.LineItem{Item: types.Compute{InstanceType: "bad", HourlyRate: raw}, Quantity: 3}
		if got := Hourly(li); !got.IsZero() {
			t.Errorf("rate %q: expected zero, got %s", raw, got)
		}
	}

	if logs.FilterMessage("unparsable hourly rate, pricing as zero").Len() != 4 {
		t.Errorf("expected 4 parse warnings, got %d", logs.Len())
	}
}

func TestHourlyNeverNegative(t *testing.T) {
	items := []types.CatalogItem{
		types.Compute{HourlyRate: "0"},
		types.Compute{HourlyRate: "12.5"},
		types.Database{HourlyRate: "3.1"},
		types.Volume{PricePerGBMonth: decimal.RequireFromString("0.125")},
	}
	for _, item := range items {
		for _, size := range []int{0, 1, 500} {
			li := &types.LineItem{Item: item, SizeGB: size, Quantity: 1}
			if Hourly(li).IsNegative() {
				t.Errorf("negative hourly for %+v size %d", item, size)
			}
		}
	}
}

func TestTotalAndProjections(t *testing.T) {
	items := []*types.LineItem{
		{Item: types.Compute{InstanceType: "m5.large", HourlyRate: "0.096"}, Quantity: 1},
		{Item: types.Volume{VolumeType: "gp3", PricePerGBMonth: decimal.RequireFromString("0.08")}, SizeGB: 100, Quantity: 1, AttachedTo: "m5.large"},
		{Item: types.Database{InstanceType: "db.t3.micro", HourlyRate: "0.02"}, Quantity: 2},
	}

	total := Total(items)
	approx(t, "total", total, "0.14695")

	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(Hourly(li).Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	if !sum.Equal(total) {
		t.Errorf("total %s differs from recomputed sum %s", total, sum)
	}

	approx(t, "monthly", Monthly(decimal.NewFromInt(1)), "730.56")
	approx(t, "yearly", Yearly(decimal.NewFromInt(1)), "8760")
}

func TestReservedHourly(t *testing.T) {
	li := &types.LineItem{Item: types.Compute{InstanceType: "m5.large", HourlyRate: "0.096", ReservedHourlyRate: "0.060"}, Quantity: 1}
	approx(t, "reserved", ReservedHourly(li), "0.06")

	db := &types.LineItem{Item: types.Database{InstanceType: "db.t3.micro", HourlyRate: "0.017"}, Quantity: 1}
	if !ReservedHourly(db).IsZero() {
		t.Error("expected zero reserved rate for database")
	}
}
