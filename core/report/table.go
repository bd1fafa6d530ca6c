// Package report lays out questionnaire responses as a question-by-column table
// and serializes it to PDF or XLSX.
package report

import (
	"errors"
	"strings"
	"time"

	"github.com/Br01t/feedback-fort/core/questionnaire"
)

type Kind string

const (
	KindDepartment Kind = "reparto"
	KindWorker     Kind = "lavoratore"
)

const (
	dateLayout   = "02/01/2006 15:04"
	noDate       = "N/D"
	questionHead = "Domanda"
)

// ErrEmpty is returned when the selection contains no response.
var ErrEmpty = errors.New("nessuna compilazione per la selezione")

type (
	Row struct {
		Cells   []string
		Section bool
	}

	Table struct {
		Kind        Kind
		Key         string
		Title       string
		Subtitle    string
		Header      []string
		Rows        []Row
		GeneratedAt time.Time
		location    *time.Location
	}

	// Options tune the rendering of timestamps.
	Options struct {
		Now      time.Time
		Location *time.Location
	}
)

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

func (o Options) format(t time.Time) string {
	if t.IsZero() {
		return noDate
	}
	return t.In(o.Location).Format(dateLayout)
}

// Footer is the generation line printed at the bottom of every page.
func (t Table) Footer() string {
	loc := t.location
	if loc == nil {
		loc = time.Local
	}
	return "Generato il " + t.GeneratedAt.In(loc).Format(dateLayout)
}

// Columns is the number of answer columns, the question column excluded.
func (t Table) Columns() int {
	if len(t.Header) == 0 {
		return 0
	}
	return len(t.Header) - 1
}

// DepartmentTable builds the report of a department: one column per worker,
// sorted by name, filled with the worker's latest response.
func DepartmentTable(rs []questionnaire.Response, department string, opts Options) (Table, error) {
	opts = opts.withDefaults()
	selected := questionnaire.SelectByKey(rs, questionnaire.FieldDepartment, department)
	if len(selected) == 0 {
		return Table{}, ErrEmpty
	}

	dates := make([]string, len(selected))
	for i, r := range selected {
		dates[i] = opts.format(r.CreatedAt)
	}

	latest := make([]questionnaire.Response, len(selected))
	copy(latest, selected)
	questionnaire.SortByCreatedAt(latest, false)

	workers := questionnaire.Workers(selected)
	columns := make([]questionnaire.Answers, len(workers))
	for i, w := range workers {
		for _, r := range latest {
			if key, ok := questionnaire.GroupKey(r, questionnaire.FieldWorker); ok && key == w {
				columns[i] = r.Answers
				break
			}
		}
	}

	return Table{
		Kind:        KindDepartment,
		Key:         department,
		Title:       "Report reparto: " + department,
		Subtitle:    "Date compilazioni: " + strings.Join(dates, ", "),
		Header:      append([]string{questionHead}, workers...),
		Rows:        buildRows(columns),
		GeneratedAt: opts.Now,
		location:    opts.Location,
	}, nil
}

// WorkerTable builds the report of a worker: one column per response, oldest first,
// headed by the compile date.
func WorkerTable(rs []questionnaire.Response, worker string, opts Options) (Table, error) {
	opts = opts.withDefaults()
	selected := questionnaire.SelectByKey(rs, questionnaire.FieldWorker, worker)
	if len(selected) == 0 {
		return Table{}, ErrEmpty
	}
	questionnaire.SortByCreatedAt(selected, true)

	header := []string{questionHead}
	dates := make([]string, len(selected))
	columns := make([]questionnaire.Answers, len(selected))
	for i, r := range selected {
		dates[i] = opts.format(r.CreatedAt)
		header = append(header, dates[i])
		columns[i] = r.Answers
	}

	return Table{
		Kind:        KindWorker,
		Key:         worker,
		Title:       "Report lavoratore: " + worker,
		Subtitle:    "Date compilazioni: " + strings.Join(dates, ", "),
		Header:      header,
		Rows:        buildRows(columns),
		GeneratedAt: opts.Now,
		location:    opts.Location,
	}, nil
}

// buildRows walks the catalog in order. A section row is emitted when a question opens
// a section other than the current one; questions with no answer in any column are skipped.
func buildRows(columns []questionnaire.Answers) []Row {
	var (
		rows    []Row
		current string
	)
	for _, q := range questionnaire.Questions {
		if title, ok := questionnaire.SectionTitles[q.ID]; ok && title != current {
			current = title
			cells := make([]string, len(columns)+1)
			cells[0] = title
			rows = append(rows, Row{Cells: cells, Section: true})
		}

		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, q.Label)
		empty := true
		for _, a := range columns {
			v := a.Render(q.ID)
			if v != questionnaire.EmptyAnswer {
				empty = false
			}
			cells = append(cells, v)
		}
		if empty {
			continue
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows
}
