package output

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
)

// SheetName is the single worksheet of the XLSX export
const SheetName = "Basket"

// XLSXFormatter renders the tabular export as a spreadsheet
type XLSXFormatter struct{}

func (f *XLSXFormatter) Format() Format { return FormatXLSX }

func (f *XLSXFormatter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (f *XLSXFormatter) Render(w io.Writer, doc *Document, opts Options) error {
	book := excelize.NewFile()
	book.SetSheetName("Sheet1", SheetName)

	for col, header := range Columns {
		book.SetCellValue(SheetName, cellName(col, 1), header)
	}
	for i, row := range Rows(doc, opts) {
		for col, value := range row.Values() {
			book.SetCellValue(SheetName, cellName(col, i+2), value)
		}
	}

	return book.Write(w)
}

// cellName converts a zero-based column and one-based row to "A1" form
func cellName(col, row int) string {
	name := ""
	for col++; col > 0; col = (col - 1) / 26 {
		name = string(rune('A'+(col-1)%26)) + name
	}
	return fmt.Sprintf("%s%d", name, row)
}
