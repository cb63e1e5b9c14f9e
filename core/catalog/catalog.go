// Package catalog loads the compute, volume and database catalogs.
// Catalog files are JSON arrays of loose records; each record is converted
// into its typed variant and malformed records are rejected before they can
// reach a basket.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
	"cloudbasket/internal/logging"
)

// Record is one raw catalog row
type Record map[string]interface{}

// Paths locates the three catalog files. Empty paths are skipped.
type Paths struct {
	Compute  string
	Volume   string
	Database string
}

// Rejection describes a catalog row that was filtered out
type Rejection struct {
	Kind   types.Kind `json:"kind"`
	Source string     `json:"source"`
	Index  int        `json:"index"`
	Reason string     `json:"reason"`
}

// Result is the outcome of a catalog load
type Result struct {
	Catalog  *types.Catalog
	Rejected []Rejection
}

// Stats holds catalog statistics
type Stats struct {
	Compute   int
	Volumes   int
	Databases int
	Rejected  int
}

// Stats returns counts for the loaded catalog
func (r *Result) Stats() Stats {
	return Stats{
		Compute:   len(r.Catalog.Compute),
		Volumes:   len(r.Catalog.Volumes),
		Databases: len(r.Catalog.Databases),
		Rejected:  len(r.Rejected),
	}
}

// Loader reads catalog files
type Loader struct {
	rules []ValidationRule
}

// NewLoader creates a loader with the default validation rules
func NewLoader() *Loader {
	return &Loader{rules: DefaultValidationRules()}
}

// Load reads all three catalogs. Either every list is loaded or an error is
// returned; a cancelled context yields no partial catalog.
func (l *Loader) Load(ctx context.Context, paths Paths) (*Result, error) {
	result := &Result{Catalog: &types.Catalog{}}

	sources := []struct {
		kind types.Kind
		path string
	}{
		{types.KindCompute, paths.Compute},
		{types.KindVolume, paths.Volume},
		{types.KindDatabase, paths.Database},
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if src.path == "" {
			continue
		}

		records, err := readRecords(src.path)
		if err != nil {
			return nil, err
		}
		l.add(result, src.kind, src.path, records)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := result.Stats()
	logging.Info("catalog loaded",
		zap.Int("compute", stats.Compute),
		zap.Int("volumes", stats.Volumes),
		zap.Int("databases", stats.Databases),
		zap.Int("rejected", stats.Rejected),
	)
	return result, nil
}

// LoadOrBuiltin loads the catalog files that exist. When none of them
// exist the built-in sample catalog is returned instead.
func (l *Loader) LoadOrBuiltin(ctx context.Context, paths Paths) (*Result, error) {
	existing := Paths{
		Compute:  existingPath(paths.Compute),
		Volume:   existingPath(paths.Volume),
		Database: existingPath(paths.Database),
	}
	if existing == (Paths{}) {
		logging.Info("no catalog files found, using built-in catalog")
		return &Result{Catalog: Builtin()}, nil
	}
	return l.Load(ctx, existing)
}

func existingPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		logging.Debug("catalog file skipped", zap.String("path", path), zap.Error(err))
		return ""
	}
	return path
}

// FromRecords converts in-memory records, applying the same rules as Load
func (l *Loader) FromRecords(compute, volumes, databases []Record) *Result {
	result := &Result{Catalog: &types.Catalog{}}
	l.add(result, types.KindCompute, "memory", compute)
	l.add(result, types.KindVolume, "memory", volumes)
	l.add(result, types.KindDatabase, "memory", databases)
	return result
}

func (l *Loader) add(result *Result, kind types.Kind, source string, records []Record) {
	for i, rec := range records {
		item, err := l.convert(kind, rec)
		if err != nil {
			rej := Rejection{Kind: kind, Source: source, Index: i, Reason: err.Error()}
			result.Rejected = append(result.Rejected, rej)
			logging.Warn("rejected catalog record",
				zap.String("kind", kind.String()),
				zap.String("source", source),
				zap.Int("index", i),
				zap.String("reason", rej.Reason),
			)
			continue
		}

		switch it := item.(type) {
		case types.Compute:
			result.Catalog.Compute = append(result.Catalog.Compute, it)
		case types.Volume:
			result.Catalog.Volumes = append(result.Catalog.Volumes, it)
		case types.Database:
			result.Catalog.Databases = append(result.Catalog.Databases, it)
		}
	}
}

func (l *Loader) convert(kind types.Kind, rec Record) (types.CatalogItem, error) {
	var (
		item types.CatalogItem
		err  error
	)
	switch kind {
	case types.KindCompute:
		item, err = toCompute(rec)
	case types.KindVolume:
		item, err = toVolume(rec)
	case types.KindDatabase:
		item, err = toDatabase(rec)
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	for _, rule := range l.rules {
		if err := rule(item); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func readRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeNotFound, err, "failed to read catalog %s", path)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Parsing("invalid catalog file "+path, err)
	}
	return records, nil
}
