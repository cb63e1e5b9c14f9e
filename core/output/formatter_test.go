package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
)

var exportTime = time.Date(2024, 5, 17, 12, 30, 0, 0, time.UTC)

func sampleDocument() *Document {
	m5 := types.Compute{InstanceType: "m5.large", VCPU: 2, MemoryGiB: 8, Storage: "EBS only", HourlyRate: "0.096"}
	gp3 := types.Volume{VolumeType: "gp3", PricePerGBMonth: decimal.RequireFromString("0.08")}
	pg := types.Database{InstanceType: "db.t3.micro", Engine: "PostgreSQL", VCPU: 2, MemoryGiB: 1, StorageGB: 20, HourlyRate: "0.018"}

	return &Document{
		Name: "Prod / EU West",
		Items: []*types.LineItem{
			{ID: "1", Item: m5, Quantity: 2, Note: "web tier"},
			{ID: "2", Item: gp3, Quantity: 1, AttachedTo: "m5.large", SizeGB: 100},
			{ID: "3", Item: pg, Quantity: 1},
		},
		DateCreated:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		DateModified: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"Prod / EU West", FormatCSV, "prod-eu-west-2024-05-17.csv"},
		{"staging", FormatJSON, "staging-2024-05-17.json"},
		{"  ", FormatXLSX, "basket-2024-05-17.xlsx"},
		{"--Team#42--", FormatCSV, "team-42-2024-05-17.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Filename(tt.name, tt.format, exportTime); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "CSV", " xlsx "} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("%q: unexpected error %v", s, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.IsType(err, errors.TypeNotSupported) {
		t.Errorf("expected not supported error, got %v", err)
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleDocument(), Options{Environment: "prod", Tags: "team=web"})
	if len(rows) != 4 {
		t.Fatalf("expected 3 item rows and a total row, got %d", len(rows))
	}

	compute := rows[0]
	if compute.Service != "EC2" || compute.Quantity != "2" || compute.VCPU != "2" || compute.Memory != "8 GiB" {
		t.Errorf("unexpected compute row: %+v", compute)
	}
	if compute.HourlyPrice != "0.0960" || compute.HourlyTotal != "0.1920" {
		t.Errorf("unexpected compute hourly cells: %s / %s", compute.HourlyPrice, compute.HourlyTotal)
	}
	if compute.MonthlyTotal != "140.27" {
		t.Errorf("expected monthly total 140.27, got %s", compute.MonthlyTotal)
	}
	if compute.Environment != "prod" || compute.Tags != "team=web" {
		t.Errorf("placeholders not applied: %+v", compute)
	}

	volume := rows[1]
	if volume.Service != "EBS" || volume.Storage != "100 GiB" || volume.AttachedTo != "m5.large" {
		t.Errorf("unexpected volume row: %+v", volume)
	}
	if volume.MonthlyPrice != "8.00" {
		t.Errorf("expected volume monthly price 8.00, got %s", volume.MonthlyPrice)
	}

	db := rows[2]
	if db.Service != "RDS" || db.Storage != "20 GiB" {
		t.Errorf("unexpected database row: %+v", db)
	}

	total := rows[3]
	if total.Resource != TotalLabel {
		t.Errorf("expected trailing total row, got %+v", total)
	}
	// 0.192 + 100*0.08/730.56 + 0.018
	if total.HourlyTotal != "0.2210" {
		t.Errorf("expected hourly total 0.2210, got %s", total.HourlyTotal)
	}
	if total.DateCreated != "2024-05-01T08:00:00Z" {
		t.Errorf("unexpected date created %q", total.DateCreated)
	}
}

func TestRowValuesMatchColumns(t *testing.T) {
	if got := len(Row{}.Values()); got != len(Columns) {
		t.Errorf("expected %d values, got %d", len(Columns), got)
	}
}

func TestCSVExport(t *testing.T) {
	payload, err := Export(DefaultRegistry(), FormatCSV, sampleDocument(), Options{Now: exportTime})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if payload.Filename != "prod-eu-west-2024-05-17.csv" {
		t.Errorf("unexpected filename %q", payload.Filename)
	}
	if payload.ContentType != "text/csv" {
		t.Errorf("unexpected content type %q", payload.ContentType)
	}

	header := strings.SplitN(string(payload.Data), "\n", 2)[0]
	if header != strings.Join(Columns, ",") {
		t.Errorf("unexpected header %q", header)
	}

	var rows []Row
	if err := gocsv.UnmarshalBytes(payload.Data, &rows); err != nil {
		t.Fatalf("failed to read back csv: %v", err)
	}
	if len(rows) != 4 || rows[3].Resource != TotalLabel {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if rows[0].Note != "web tier" {
		t.Errorf("expected note to survive, got %q", rows[0].Note)
	}
}

func TestJSONExport(t *testing.T) {
	payload, err := Export(DefaultRegistry(), FormatJSON, sampleDocument(), Options{Now: exportTime})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload.Data, &snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snap.Name != "Prod / EU West" || len(snap.Items) != 3 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if !snap.ExportedAt.Equal(exportTime) {
		t.Errorf("expected exportedAt %v, got %v", exportTime, snap.ExportedAt)
	}

	expected := decimal.RequireFromString("0.21")
	expected = expected.Add(decimal.NewFromInt(8).Div(decimal.RequireFromString("730.56")))
	if !snap.HourlyTotal.Equal(expected) {
		t.Errorf("expected hourly total %s, got %s", expected, snap.HourlyTotal)
	}
	if !snap.MonthlyTotal.Equal(expected.Mul(decimal.RequireFromString("730.56"))) {
		t.Errorf("unexpected monthly total %s", snap.MonthlyTotal)
	}
	if snap.Items[1].AttachedTo != "m5.large" || snap.Items[1].Kind() != types.KindVolume {
		t.Errorf("attached volume lost its shape: %+v", snap.Items[1])
	}
}

func TestXLSXExport(t *testing.T) {
	payload, err := Export(DefaultRegistry(), FormatXLSX, sampleDocument(), Options{Now: exportTime})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasSuffix(payload.Filename, ".xlsx") {
		t.Errorf("unexpected filename %q", payload.Filename)
	}

	book, err := excelize.OpenReader(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("not a readable workbook: %v", err)
	}
	found := false
	for _, name := range book.GetSheetMap() {
		if name == SheetName {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sheet %q, got %v", SheetName, book.GetSheetMap())
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(NewRegistry(), FormatCSV, sampleDocument(), Options{})
	if !errors.IsType(err, errors.TypeNotSupported) {
		t.Errorf("expected not supported error, got %v", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&CSVFormatter{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&CSVFormatter{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if len(r.GetAll()) != 1 {
		t.Errorf("expected one formatter, got %d", len(r.GetAll()))
	}
}

func TestCellName(t *testing.T) {
	tests := map[string]struct{ col, row int }{
		"A1":  {0, 1},
		"P2":  {15, 2},
		"Z9":  {25, 9},
		"AA3": {26, 3},
	}
	for want, in := range tests {
		if got := cellName(in.col, in.row); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}
