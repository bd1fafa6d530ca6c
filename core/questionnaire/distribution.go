package questionnaire

// Count is a chart point.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type QuestionDistribution struct {
	QuestionID string  `json:"questionId"`
	Label      string  `json:"label"`
	Counts     []Count `json:"counts"`
}

// Counts tallies the rendered answers of a question in order of first appearance, skipping empty ones.
func Counts(rs []Response, questionID string) []Count {
	idx := make(map[string]int)
	counts := make([]Count, 0)
	for _, r := range rs {
		v := r.Answers.Render(questionID)
		if v == EmptyAnswer {
			continue
		}
		i, ok := idx[v]
		if !ok {
			i = len(counts)
			idx[v] = i
			counts = append(counts, Count{Name: v})
		}
		counts[i].Value++
	}
	return counts
}

// Distribution tallies each question; all catalog questions when ids is empty.
// Questions without answers are left out.
func Distribution(rs []Response, ids ...string) []QuestionDistribution {
	if len(ids) == 0 {
		ids = make([]string, 0, len(Questions))
		for _, q := range Questions {
			ids = append(ids, q.ID)
		}
	}
	out := make([]QuestionDistribution, 0, len(ids))
	for _, id := range ids {
		counts := Counts(rs, id)
		if len(counts) == 0 {
			continue
		}
		out = append(out, QuestionDistribution{QuestionID: id, Label: Label(id), Counts: counts})
	}
	return out
}
