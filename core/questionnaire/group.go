package questionnaire

import "sort"

// GroupKey returns the literal value of field used for grouping.
// ok is false when the value is missing, null, empty, "undefined" or "null".
func GroupKey(r Response, field string) (key string, ok bool) {
	key = r.Answers.Literal(field)
	switch key {
	case "", "undefined", "null":
		return "", false
	}
	return key, true
}

// Keys returns the sorted distinct known keys of field.
func Keys(rs []Response, field string) []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, r := range rs {
		k, ok := GroupKey(r, field)
		if !ok {
			continue
		}
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func Workers(rs []Response) []string {
	return Keys(rs, FieldWorker)
}

func Departments(rs []Response) []string {
	return Keys(rs, FieldDepartment)
}

type Group struct {
	Key       string     `json:"key"`
	Responses []Response `json:"responses"`
}

// GroupBy partitions the responses by the key of field, in order of first appearance.
// Responses with an unknown key belong to no group.
func GroupBy(rs []Response, field string) []Group {
	idx := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range rs {
		k, ok := GroupKey(r, field)
		if !ok {
			continue
		}
		i, seen := idx[k]
		if !seen {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Responses = append(groups[i].Responses, r)
	}
	return groups
}

// SelectByKey returns the responses whose key of field equals value exactly.
// Keys are compared in the same stringified form Keys and GroupBy report, so every
// listed key selects its whole group, numeric answers included.
func SelectByKey(rs []Response, field, value string) []Response {
	out := make([]Response, 0)
	for _, r := range rs {
		if k, ok := GroupKey(r, field); ok && k == value {
			out = append(out, r)
		}
	}
	return out
}

type (
	WorkerAnswer struct {
		Worker string `json:"worker"`
		Value  string `json:"value"`
	}

	// QuestionAnswers is one question with every non-empty answer given to it.
	QuestionAnswers struct {
		QuestionID string         `json:"questionId"`
		Label      string         `json:"label"`
		Answers    []WorkerAnswer `json:"answers"`
	}

	Row struct {
		QuestionID string `json:"questionId"`
		Label      string `json:"label"`
		Value      string `json:"value"`
	}

	// ResponseRows is a response laid out question by question.
	ResponseRows struct {
		Response Response `json:"response"`
		Rows     []Row    `json:"rows"`
	}
)

const unknownWorker = "Sconosciuto"

// AnswersByQuestion lists, for each catalog question, the non-empty answers of rs.
// Questions nobody answered are left out.
func AnswersByQuestion(rs []Response) []QuestionAnswers {
	out := make([]QuestionAnswers, 0, len(Questions))
	for _, q := range Questions {
		qa := QuestionAnswers{QuestionID: q.ID, Label: q.Label}
		for _, r := range rs {
			v := r.Answers.Render(q.ID)
			if v == EmptyAnswer {
				continue
			}
			worker, ok := GroupKey(r, FieldWorker)
			if !ok {
				worker = unknownWorker
			}
			qa.Answers = append(qa.Answers, WorkerAnswer{Worker: worker, Value: v})
		}
		if len(qa.Answers) > 0 {
			out = append(out, qa)
		}
	}
	return out
}

// Rows lays out every catalog question of r with its rendered answer.
func Rows(r Response) ResponseRows {
	rows := make([]Row, 0, len(Questions))
	for _, q := range Questions {
		rows = append(rows, Row{QuestionID: q.ID, Label: q.Label, Value: r.Answers.Render(q.ID)})
	}
	return ResponseRows{Response: r, Rows: rows}
}
