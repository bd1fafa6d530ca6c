package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	pdfFont        = "Helvetica"
	pdfMargin      = 14.0
	pdfTop         = 15.0
	pdfBottom      = 15.0
	pdfCellPadding = 2.0
	pdfLineHeight  = 3.8
	pdfLabelWidth  = 70.0
	pdfMinColWidth = 18.0
)

type rgb struct{ r, g, b int }

var (
	headFill    = rgb{41, 128, 185}
	sectionFill = rgb{230, 230, 230}
	stripeFill  = rgb{245, 245, 245}
	white       = rgb{255, 255, 255}
)

// latin1 replaces the characters the core fonts cannot encode.
var latin1 = strings.NewReplacer(
	"—", "-", "–", "-", "‘", "'", "’", "'", "“", "\"", "”", "\"", "…", "...", "€", "EUR",
)

func sanitize(s string) string {
	s = latin1.Replace(s)
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	widths []float64
	header []string
}

// WritePDF renders the table on A4 portrait pages with a repeated header row,
// striped body, bold grey section rows and a generation footer.
func WritePDF(w io.Writer, t Table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfTop, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfBottom)
	pdf.AliasNbPages("")

	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	for _, h := range t.Header {
		pw.header = append(pw.header, sanitize(h))
	}
	pw.widths = columnWidths(pdf, t.Columns())

	footer := sanitize(t.Footer())
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 5, pw.tr(footer), "", 0, "L", false, 0, "")
		pdf.SetX(pdfMargin)
		pdf.CellFormat(0, 5, fmt.Sprintf("Pagina %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 8, pw.tr(sanitize(t.Title)), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	pdf.MultiCell(0, 5, pw.tr(sanitize(t.Subtitle)), "", "L", false)
	pdf.Ln(3)

	pw.headerRow()
	for i, row := range t.Rows {
		fill := white
		if row.Section {
			fill = sectionFill
		} else if i%2 == 1 {
			fill = stripeFill
		}
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = sanitize(c)
		}
		style := ""
		if row.Section {
			style = "B"
		}
		pw.row(cells, style, fill, rgb{0, 0, 0}, true)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}

func columnWidths(pdf *fpdf.Fpdf, columns int) []float64 {
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pdfMargin
	if columns == 0 {
		return []float64{usable}
	}

	label := pdfLabelWidth
	if usable-label < float64(columns)*pdfMinColWidth {
		label = usable / 3
	}
	widths := make([]float64, columns+1)
	widths[0] = label
	for i := 1; i <= columns; i++ {
		widths[i] = (usable - label) / float64(columns)
	}
	return widths
}

func (pw *pdfWriter) headerRow() {
	pw.row(pw.header, "B", headFill, white, false)
}

// row draws one table row, wrapping every cell, and starts a new page (repeating the
// header) when the row does not fit.
func (pw *pdfWriter) row(cells []string, style string, fill, text rgb, breakable bool) {
	pdf := pw.pdf
	pdf.SetFont(pdfFont, style, 8)

	lines := make([][]string, len(pw.widths))
	maxLines := 1
	for i, w := range pw.widths {
		if i >= len(cells) || cells[i] == "" {
			continue
		}
		lines[i] = pdf.SplitText(cells[i], w-2*pdfCellPadding)
		if len(lines[i]) > maxLines {
			maxLines = len(lines[i])
		}
	}
	h := float64(maxLines)*pdfLineHeight + 2*pdfCellPadding

	_, pageH := pdf.GetPageSize()
	if breakable && pdf.GetY()+h > pageH-pdfBottom {
		pdf.AddPage()
		pw.headerRow()
		pdf.SetFont(pdfFont, style, 8)
	}

	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(fill.r, fill.g, fill.b)
	pdf.SetDrawColor(255, 255, 255)
	pdf.SetTextColor(text.r, text.g, text.b)
	for i, w := range pw.widths {
		pdf.Rect(x, y, w, h, "FD")
		for j, line := range lines[i] {
			pdf.SetXY(x+pdfCellPadding, y+pdfCellPadding+float64(j)*pdfLineHeight)
			pdf.CellFormat(w-2*pdfCellPadding, pdfLineHeight, pw.tr(line), "", 0, "L", false, 0, "")
		}
		x += w
	}
	pdf.SetXY(pdfMargin, y+h)
}
