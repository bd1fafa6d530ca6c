package questionnaire

import "math"

const (
	satisfactionQuestion = "q7"
	evaluatedQuestion    = "q1"
	unknownDepartment    = "Non specificato"
)

type (
	DepartmentScore struct {
		Department string `json:"department"`
		Score      int    `json:"score"`
		Responses  int    `json:"responses"`
	}

	Stats struct {
		TotalResponses       int               `json:"totalResponses"`
		ActiveQuestionnaires int               `json:"activeQuestionnaires"`
		AverageScore         int               `json:"averageScore"`
		Satisfaction         []Count           `json:"satisfaction"`
		DepartmentScores     []DepartmentScore `json:"departmentScores"`
	}
)

// ComputeStats summarises rs for the dashboard.
// Department scores are the rounded mean of the per-response scores, in order of first appearance.
// Evaluation forms without a department are grouped by the evaluated name.
func ComputeStats(rs []Response, st ScoreTable) Stats {
	stats := Stats{
		TotalResponses:       len(rs),
		ActiveQuestionnaires: 1,
		Satisfaction:         Counts(rs, satisfactionQuestion),
		DepartmentScores:     make([]DepartmentScore, 0),
	}

	type acc struct {
		sum float64
		n   int
	}
	idx := make(map[string]int)
	accs := make([]acc, 0)
	var total float64
	for _, r := range rs {
		score := st.Score(r.Answers)
		total += score

		dept, ok := GroupKey(r, FieldDepartment)
		if !ok {
			if dept, ok = GroupKey(r, evaluatedQuestion); !ok {
				dept = unknownDepartment
			}
		}
		i, seen := idx[dept]
		if !seen {
			i = len(accs)
			idx[dept] = i
			accs = append(accs, acc{})
			stats.DepartmentScores = append(stats.DepartmentScores, DepartmentScore{Department: dept})
		}
		accs[i].sum += score
		accs[i].n++
	}

	for i, a := range accs {
		stats.DepartmentScores[i].Score = int(math.Round(a.sum / float64(a.n)))
		stats.DepartmentScores[i].Responses = a.n
	}
	if len(rs) > 0 {
		stats.AverageScore = int(math.Round(total / float64(len(rs))))
	}
	return stats
}
