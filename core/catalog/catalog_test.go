package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConvertsAndFilters(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Compute: writeFile(t, dir, "compute.json", `[
			{"Instance Type": "m5.large", "vCPUs": 2, "Memory": "8 GiB", "Storage": "EBS only", "OS": "Linux", "Deployment": "Shared", "pricePerHour": "0.096", "reservedPricePerHour": 0.06},
			{"Instance Type": "", "pricePerHour": "0.1"},
			{"Instance Type": "broken.large", "pricePerHour": "n/a"},
			{"instanceType": "t3.micro", "vcpu": "2", "memory": 1, "storage": "EBS only", "hourlyRate": 0.0104}
		]`),
		Volume: writeFile(t, dir, "volume.json", `[
			{"volumeType": "gp3", "iops": "3000", "throughput": "125 MiB/s", "pricePerGBMonth": 0.08},
			{"volumeType": "gp2", "pricePerGBMonth": "0.10"},
			{"volumeType": "io9", "pricePerGBMonth": "free"},
			{"pricePerGBMonth": 0.05}
		]`),
		Database: writeFile(t, dir, "database.json", `[
			{"instanceType": "db.t3.micro", "engine": "PostgreSQL", "vCPU": 2, "memory": "1 GiB", "storage": "20 GB", "pricePerHour": "0.018"},
			null
		]`),
	}

	result, err := NewLoader().Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := result.Stats()
	if stats.Compute != 2 || stats.Volumes != 2 || stats.Databases != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Rejected != 5 {
		t.Errorf("expected 5 rejections, got %d: %+v", stats.Rejected, result.Rejected)
	}

	m5, ok := result.Catalog.FindCompute("m5.large")
	if !ok {
		t.Fatal("m5.large not loaded")
	}
	if m5.VCPU != 2 || m5.MemoryGiB != 8 || m5.Storage != "EBS only" || m5.HourlyRate != "0.096" || m5.ReservedHourlyRate != "0.06" {
		t.Errorf("unexpected m5.large: %+v", m5)
	}

	t3, _ := result.Catalog.FindCompute("t3.micro")
	if t3.HourlyRate != "0.0104" {
		t.Errorf("numeric rate not preserved: %q", t3.HourlyRate)
	}

	gp2, _ := result.Catalog.FindVolume("gp2")
	if !gp2.PricePerGBMonth.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("unexpected gp2 price: %s", gp2.PricePerGBMonth)
	}

	db, _ := result.Catalog.FindDatabase("db.t3.micro")
	if db.StorageGB != 20 || db.MemoryGiB != 1 || db.Engine != "PostgreSQL" {
		t.Errorf("unexpected database: %+v", db)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), Paths{Compute: filepath.Join(t.TempDir(), "nope.json")})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "compute.json", `{"not": "a list"}`)
	_, err := NewLoader().Load(context.Background(), Paths{Compute: path})
	if !errors.IsType(err, errors.TypeParsing) {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestLoadCancelledContextYieldsNothing(t *testing.T) {
	path := writeFile(t, t.TempDir(), "compute.json", `[{"instanceType": "m5.large", "hourlyRate": "0.096"}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewLoader().Load(ctx, Paths{Compute: path})
	if err == nil || result != nil {
		t.Errorf("expected cancellation with no result, got %v / %v", result, err)
	}
}

func TestFromRecords(t *testing.T) {
	result := NewLoader().FromRecords(
		[]Record{{"instanceType": "m5.large", "hourlyRate": "0.096"}},
		[]Record{{"volumeType": "gp3", "pricePerGBMonth": 0.08}},
		[]Record{{"instanceType": "db.t3.micro", "hourlyRate": "-1"}},
	)

	if result.Catalog.Len() != 2 {
		t.Errorf("expected 2 items, got %d", result.Catalog.Len())
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Kind != types.KindDatabase {
		t.Errorf("expected the negative database rate to be rejected, got %+v", result.Rejected)
	}
}

func TestBuiltinPassesValidation(t *testing.T) {
	rules := DefaultValidationRules()
	cat := Builtin()

	var items []types.CatalogItem
	for _, c := range cat.Compute {
		items = append(items, c)
	}
	for _, v := range cat.Volumes {
		items = append(items, v)
	}
	for _, d := range cat.Databases {
		items = append(items, d)
	}

	for _, item := range items {
		for _, rule := range rules {
			if err := rule(item); err != nil {
				t.Errorf("%s %s: %v", item.Kind(), item.Identity(), err)
			}
		}
	}
}

func TestLoadOrBuiltin(t *testing.T) {
	dir := t.TempDir()

	result, err := NewLoader().LoadOrBuiltin(context.Background(), Paths{
		Compute: filepath.Join(dir, "compute.json"),
		Volume:  filepath.Join(dir, "volume.json"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Catalog.Len() != Builtin().Len() {
		t.Errorf("expected the built-in catalog, got %d items", result.Catalog.Len())
	}

	path := writeFile(t, dir, "volume.json", `[{"volumeType": "gp3", "pricePerGBMonth": 0.08}]`)
	result, err = NewLoader().LoadOrBuiltin(context.Background(), Paths{
		Compute: filepath.Join(dir, "missing.json"),
		Volume:  path,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Catalog.Volumes) != 1 || len(result.Catalog.Compute) != 0 {
		t.Errorf("expected only the file catalog, got %+v", result.Stats())
	}
}
