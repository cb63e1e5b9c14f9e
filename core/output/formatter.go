// Package output renders baskets and saved sessions for export.
// This package produces machine-readable JSON snapshots and tabular
// CSV and XLSX sheets.
package output

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cloudbasket/core/session"
	"cloudbasket/core/types"
	"cloudbasket/internal/errors"
	"cloudbasket/internal/logging"
)

// Format represents output format type
type Format string

const (
	// FormatJSON is a full-precision JSON snapshot
	FormatJSON Format = "json"

	// FormatCSV is a comma-separated table
	FormatCSV Format = "csv"

	// FormatXLSX is a spreadsheet with a single sheet
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", errors.NotSupported(fmt.Sprintf("export format %q", s))
}

// Document is the basket being exported
type Document struct {
	// Name labels the export and its filename
	Name string

	// Items are the basket line items in basket order
	Items []*types.LineItem

	// DateCreated is when the basket was first saved
	DateCreated time.Time

	// DateModified is when the basket was last saved
	DateModified time.Time
}

// FromSession builds an export document from a saved session
func FromSession(s *session.Session) *Document {
	return &Document{
		Name:         s.Name,
		Items:        types.CloneLineItems(s.Items),
		DateCreated:  s.DateCreated,
		DateModified: s.DateModified,
	}
}

// Options carries export placeholders
type Options struct {
	// Environment fills the Environment column
	Environment string

	// Tags fills the Tags column
	Tags string

	// Now is the export time; zero means time.Now
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now.UTC()
}

// Payload is a rendered export ready to be written or downloaded
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// ContentType is the MIME type of the rendered output
	ContentType() string

	// Render writes the document to w
	Render(w io.Writer, doc *Document, opts Options) error
}

// FormatterRegistry manages formatter registration
type FormatterRegistry interface {
	// Register adds a formatter to the registry
	Register(formatter Formatter) error

	// GetFormatter returns a formatter for a format type
	GetFormatter(format Format) (Formatter, bool)

	// GetAll returns all registered formatters
	GetAll() []Formatter
}

// Registry is the default FormatterRegistry
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
	order      []Format
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[Format]Formatter)}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[formatter.Format()]; exists {
		return errors.Validation(fmt.Sprintf("formatter %q already registered", formatter.Format()))
	}
	r.formatters[formatter.Format()] = formatter
	r.order = append(r.order, formatter.Format())
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// GetAll returns all registered formatters in registration order
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Formatter, 0, len(r.order))
	for _, f := range r.order {
		out = append(out, r.formatters[f])
	}
	return out
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns a registry holding the JSON, CSV and XLSX formatters
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register(&JSONFormatter{})
		defaultRegistry.Register(&CSVFormatter{})
		defaultRegistry.Register(&XLSXFormatter{})
	})
	return defaultRegistry
}

// Export renders doc with the formatter registered for format
func Export(registry FormatterRegistry, format Format, doc *Document, opts Options) (*Payload, error) {
	formatter, ok := registry.GetFormatter(format)
	if !ok {
		return nil, errors.NotSupported(fmt.Sprintf("export format %q", format))
	}

	var buf bytes.Buffer
	if err := formatter.Render(&buf, doc, opts); err != nil {
		return nil, errors.Wrapf(errors.TypeInternal, err, "failed to render %s export", format)
	}

	payload := &Payload{
		Filename:    Filename(doc.Name, format, opts.now()),
		ContentType: formatter.ContentType(),
		Data:        buf.Bytes(),
	}
	logging.Debug("export rendered",
		zap.String("format", string(format)),
		zap.String("filename", payload.Filename),
		zap.Int("bytes", len(payload.Data)),
	)
	return payload, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns "<slug>-<YYYY-MM-DD>.<ext>"
func Filename(name string, format Format, at time.Time) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "basket"
	}
	return fmt.Sprintf("%s-%s.%s", slug, at.Format("2006-01-02"), format)
}
