package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var contentTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseFormat accepts "pdf" and "xlsx" in any case; an empty value means PDF.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatPDF, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("formato non supportato: %q", s)
	}
	return f, nil
}

func (f Format) ContentType() string {
	return contentTypes[f]
}

// Write serializes the table in the given format.
func Write(w io.Writer, t Table, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return WritePDF(w, t)
	}
}

var filenameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\"", "", "\n", " ", "\r", " ")

// Filename returns report_<kind>_<key>_<YYYY-MM-DD>.<ext>, the date being taken in UTC.
func Filename(kind Kind, key string, now time.Time, f Format) string {
	return fmt.Sprintf("report_%s_%s_%s.%s", kind, filenameReplacer.Replace(key), now.UTC().Format("2006-01-02"), f)
}
