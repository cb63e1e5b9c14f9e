package output

import (
	"io"

	"github.com/gocarina/gocsv"
)

// CSVFormatter renders the tabular export as CSV
type CSVFormatter struct{}

func (f *CSVFormatter) Format() Format { return FormatCSV }

func (f *CSVFormatter) ContentType() string { return "text/csv" }

func (f *CSVFormatter) Render(w io.Writer, doc *Document, opts Options) error {
	rows := Rows(doc, opts)
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
