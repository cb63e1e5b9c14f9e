// Package plan reads basket plan files.
// A plan is an HCL document listing compute, volume and database entries in
// the order they should be added to a basket.
package plan

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
)

// Plan is a parsed plan file
type Plan struct {
	// Name is the optional session name
	Name string

	// Entries are in file order
	Entries []Entry
}

// Entry is one catalog selection
type Entry struct {
	// Kind is the catalog variant
	Kind types.Kind

	// Type is the catalog identity (instance or volume type)
	Type string

	// Quantity is how many times the item is added
	Quantity int

	// Note is copied onto the resulting line
	Note string

	// SizeGB is the capacity of a standalone volume, at least 1
	SizeGB int

	// Storage is the explicit storage choice for a compute entry
	Storage *StorageChoice

	// SkipStorage adds a compute entry without storage
	SkipStorage bool

	// Location is "file:line" for error messages
	Location string
}

// StorageChoice is the storage attached to a compute entry
type StorageChoice struct {
	VolumeType string
	SizeGB     int
}

var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "compute", LabelNames: []string{"type"}},
		{Type: "volume", LabelNames: []string{"type"}},
		{Type: "database", LabelNames: []string{"type"}},
	},
}

type computeBody struct {
	Quantity    *int         `hcl:"quantity,optional"`
	Note        string       `hcl:"note,optional"`
	SkipStorage bool         `hcl:"skip_storage,optional"`
	Storage     *storageBody `hcl:"storage,block"`
}

type storageBody struct {
	VolumeType string `hcl:"type,label"`
	SizeGB     int    `hcl:"size,optional"`
}

type volumeBody struct {
	Quantity *int   `hcl:"quantity,optional"`
	Note     string `hcl:"note,optional"`
	SizeGB   int    `hcl:"size,optional"`
}

type databaseBody struct {
	Quantity *int   `hcl:"quantity,optional"`
	Note     string `hcl:"note,optional"`
}

// ParseFile reads and parses a plan file
func ParseFile(path string) (*Plan, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeNotFound, err, "failed to read plan %s", path)
	}
	return Parse(src, path)
}

// Parse parses plan source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Plan, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("invalid plan", diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, errors.Parsing("invalid plan", diags)
	}

	p := &Plan{}
	if attr, ok := content.Attributes["name"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &p.Name); diags.HasErrors() {
			return nil, errors.Parsing("invalid plan name", diags)
		}
	}

	for _, block := range content.Blocks {
		entry, err := decodeBlock(block)
		if err != nil {
			return nil, err
		}
		p.Entries = append(p.Entries, entry)
	}
	return p, nil
}

func decodeBlock(block *hcl.Block) (Entry, error) {
	entry := Entry{
		Type:     block.Labels[0],
		Location: fmt.Sprintf("%s:%d", block.DefRange.Filename, block.DefRange.Start.Line),
	}

	var (
		quantity *int
		diags    hcl.Diagnostics
	)
	switch block.Type {
	case "compute":
		var body computeBody
		diags = gohcl.DecodeBody(block.Body, nil, &body)
		entry.Kind = types.KindCompute
		quantity = body.Quantity
		entry.Note = body.Note
		entry.SkipStorage = body.SkipStorage
		if body.Storage != nil {
			entry.Storage = &StorageChoice{VolumeType: body.Storage.VolumeType, SizeGB: body.Storage.SizeGB}
		}
	case "volume":
		var body volumeBody
		diags = gohcl.DecodeBody(block.Body, nil, &body)
		entry.Kind = types.KindVolume
		quantity = body.Quantity
		entry.Note = body.Note
		entry.SizeGB = body.SizeGB
	case "database":
		var body databaseBody
		diags = gohcl.DecodeBody(block.Body, nil, &body)
		entry.Kind = types.KindDatabase
		quantity = body.Quantity
		entry.Note = body.Note
	}
	if diags.HasErrors() {
		return entry, errors.Parsing(fmt.Sprintf("invalid %s block at %s", block.Type, entry.Location), diags)
	}

	entry.Quantity = 1
	if quantity != nil {
		entry.Quantity = *quantity
	}
	if entry.Quantity < 1 {
		return entry, errors.Validation(fmt.Sprintf("%s: quantity must be at least 1", entry.Location))
	}
	if entry.Storage != nil && entry.SkipStorage {
		return entry, errors.Validation(fmt.Sprintf("%s: storage and skip_storage are mutually exclusive", entry.Location))
	}
	if entry.Kind == types.KindVolume && entry.SizeGB < 1 {
		return entry, errors.Validation(fmt.Sprintf("%s: volume size must be set to at least 1 GiB", entry.Location))
	}
	if entry.Storage != nil && entry.Storage.SizeGB < 0 {
		return entry, errors.Validation(fmt.Sprintf("%s: size must not be negative", entry.Location))
	}
	return entry, nil
}
