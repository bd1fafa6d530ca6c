package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Br01t/feedback-fort/core/questionnaire"
)

var (
	day1 = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 8, 14, 0, 0, 0, time.UTC)
	now  = time.Date(2024, 3, 10, 18, 45, 0, 0, time.UTC)
	opts = Options{Now: now, Location: time.UTC}
)

func resp(id string, at time.Time, answers questionnaire.Answers) questionnaire.Response {
	return questionnaire.Response{ID: id, CreatedAt: at, Answers: answers}
}

func findRow(rows []Row, label string) (Row, bool) {
	for _, r := range rows {
		if len(r.Cells) > 0 && r.Cells[0] == label {
			return r, true
		}
	}
	return Row{}, false
}

func TestDepartmentTable(t *testing.T) {
	rs := []questionnaire.Response{
		resp("1", day1, questionnaire.Answers{"meta_nome": "Mario Rossi", "meta_reparto": "IT", "1.2": "NO"}),
		resp("2", day2, questionnaire.Answers{"meta_nome": "Mario Rossi", "meta_reparto": "IT", "1.2": "SI"}),
		resp("3", day1, questionnaire.Answers{"meta_nome": "Anna Bianchi", "meta_reparto": "IT", "1.4": "SI"}),
		resp("4", time.Time{}, questionnaire.Answers{"meta_reparto": "IT", "1.2": "NO"}),
		resp("5", day1, questionnaire.Answers{"meta_nome": "Luca Verdi", "meta_reparto": "HR", "1.2": "SI"}),
	}

	table, err := DepartmentTable(rs, "IT", opts)
	require.NoError(t, err)

	assert.Equal(t, KindDepartment, table.Kind)
	assert.Equal(t, "Report reparto: IT", table.Title)
	assert.Equal(t, "Date compilazioni: 01/03/2024 09:30, 08/03/2024 14:00, 01/03/2024 09:30, N/D", table.Subtitle)
	assert.Equal(t, []string{"Domanda", "Anna Bianchi", "Mario Rossi"}, table.Header)
	assert.Equal(t, "Generato il 10/03/2024 18:45", table.Footer())

	row, ok := findRow(table.Rows, questionnaire.Label("1.2"))
	require.True(t, ok)
	assert.Equal(t, []string{questionnaire.Label("1.2"), "—", "SI"}, row.Cells, "latest response of each worker")

	row, ok = findRow(table.Rows, questionnaire.Label("1.4"))
	require.True(t, ok)
	assert.Equal(t, []string{questionnaire.Label("1.4"), "SI", "—"}, row.Cells)

	_, err = DepartmentTable(rs, "Produzione", opts)
	assert.Equal(t, ErrEmpty, err)
}

func TestWorkerTable(t *testing.T) {
	rs := []questionnaire.Response{
		resp("2", day2, questionnaire.Answers{"meta_nome": "Mario Rossi", "1.2": "SI", "1.3": []string{"dati", "grafica"}}),
		resp("1", day1, questionnaire.Answers{"meta_nome": "Mario Rossi", "1.2": "NO"}),
		resp("3", day1, questionnaire.Answers{"meta_nome": "Anna Bianchi", "1.2": "NO"}),
	}

	table, err := WorkerTable(rs, "Mario Rossi", opts)
	require.NoError(t, err)

	assert.Equal(t, "Report lavoratore: Mario Rossi", table.Title)
	assert.Equal(t, []string{"Domanda", "01/03/2024 09:30", "08/03/2024 14:00"}, table.Header)
	assert.Equal(t, 2, table.Columns())

	row, ok := findRow(table.Rows, questionnaire.Label("1.2"))
	require.True(t, ok)
	assert.Equal(t, []string{questionnaire.Label("1.2"), "NO", "SI"}, row.Cells)

	row, ok = findRow(table.Rows, questionnaire.Label("1.3"))
	require.True(t, ok)
	assert.Equal(t, []string{questionnaire.Label("1.3"), "—", "dati, grafica"}, row.Cells)

	_, err = WorkerTable(rs, "undefined", opts)
	assert.Equal(t, ErrEmpty, err)
}

func TestBuildRows(t *testing.T) {
	tests := []struct {
		name    string
		columns []questionnaire.Answers
		want    []string
		absent  []string
	}{
		{
			name: "skips questions without answers",
			columns: []questionnaire.Answers{
				{"meta_nome": "Mario Rossi", "1.2": "SI", "1.2_note": "", "2.1": nil},
				{"meta_nome": "Anna Bianchi", "1.2": "NO"},
			},
			want:   []string{questionnaire.Label("meta_nome"), questionnaire.Label("1.2")},
			absent: []string{questionnaire.Label("1.2_note"), questionnaire.Label("2.1"), questionnaire.Label("meta_reparto")},
		},
		{
			name:    "one answer is enough",
			columns: []questionnaire.Answers{{}, {"2.1": "SI"}},
			want:    []string{questionnaire.Label("2.1")},
			absent:  []string{questionnaire.Label("1.2")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := buildRows(tt.columns)
			for _, label := range tt.want {
				_, ok := findRow(rows, label)
				assert.True(t, ok, "missing row %q", label)
			}
			for _, label := range tt.absent {
				_, ok := findRow(rows, label)
				assert.False(t, ok, "unexpected row %q", label)
			}
			for _, r := range rows {
				assert.Len(t, r.Cells, len(tt.columns)+1)
			}
		})
	}
}

func TestBuildRows_Sections(t *testing.T) {
	rows := buildRows([]questionnaire.Answers{{"meta_nome": "Mario Rossi", "1.2": "SI"}})

	seen := map[string]int{}
	var order []string
	for _, r := range rows {
		if !r.Section {
			continue
		}
		seen[r.Cells[0]]++
		order = append(order, r.Cells[0])
		assert.Equal(t, "", r.Cells[1])
	}
	for title, n := range seen {
		assert.Equal(t, 1, n, "section %q repeated", title)
	}
	assert.Len(t, order, len(questionnaire.SectionTitles))
	assert.Equal(t, questionnaire.SectionTitles["meta_nome"], order[0])
	assert.Equal(t, questionnaire.SectionTitles["1.1"], order[1])

	// a section row precedes the questions it opens
	var idxSection, idxQuestion int
	for i, r := range rows {
		switch r.Cells[0] {
		case questionnaire.SectionTitles["1.1"]:
			idxSection = i
		case questionnaire.Label("1.2"):
			idxQuestion = i
		}
	}
	assert.Less(t, idxSection, idxQuestion)
}
