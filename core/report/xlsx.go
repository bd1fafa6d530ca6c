package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// WriteXLSX writes the table to a single-sheet workbook: title and dates on top,
// then the header row, the question rows and the generation line.
func WriteXLSX(w io.Writer, t Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "closing workbook")
		}
	}()

	if err = f.SetSheetName("Sheet1", sheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return errors.Wrap(err, "creating title style")
	}
	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2980B9"}},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return errors.Wrap(err, "creating section style")
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return errors.Wrap(err, "creating cell style")
	}

	sw := sheetWriter{f: f}
	sw.set(1, 1, t.Title)
	sw.style(1, 1, 1, titleStyle)
	sw.set(1, 2, t.Subtitle)

	const headRow = 4
	sw.setRow(headRow, t.Header)
	sw.style(headRow, 1, len(t.Header), headStyle)

	last := len(t.Header)
	if last == 0 {
		last = 1
	}
	for i, row := range t.Rows {
		n := headRow + 1 + i
		sw.setRow(n, row.Cells)
		if row.Section {
			sw.style(n, 1, last, sectionStyle)
		} else {
			sw.style(n, 1, last, wrapStyle)
		}
	}
	sw.set(1, headRow+len(t.Rows)+2, t.Footer())

	if sw.err == nil {
		sw.err = f.SetColWidth(sheetName, "A", "A", 60)
	}
	if sw.err == nil && last > 1 {
		lastCol, _ := excelize.ColumnNumberToName(last)
		sw.err = f.SetColWidth(sheetName, "B", lastCol, 22)
	}
	if sw.err != nil {
		return errors.Wrap(sw.err, "filling sheet")
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing xlsx")
	}
	return nil
}

// sheetWriter keeps the first error so cells can be written without checking each call.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (sw *sheetWriter) set(col, row int, value string) {
	if sw.err != nil {
		return
	}
	var cell string
	if cell, sw.err = excelize.CoordinatesToCellName(col, row); sw.err != nil {
		return
	}
	sw.err = sw.f.SetCellValue(sheetName, cell, value)
}

func (sw *sheetWriter) setRow(row int, values []string) {
	for i, v := range values {
		sw.set(i+1, row, v)
	}
}

func (sw *sheetWriter) style(row, fromCol, toCol, styleID int) {
	if sw.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		sw.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		sw.err = err
		return
	}
	sw.err = sw.f.SetCellStyle(sheetName, from, to, styleID)
}
