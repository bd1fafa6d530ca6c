package questionnaire

// ScoreTable maps the answers of a set of questions to points.
type ScoreTable struct {
	Questions []string
	Values    map[string]float64
}

// DefaultScoreValues rates the options of the evaluation form on a 25..100 scale.
var DefaultScoreValues = map[string]float64{
	"Eccellente":        100,
	"Ottimo":            100,
	"Sempre puntuale":   100,
	"Molto soddisfatto": 100,

	"Buono":        75,
	"Quasi sempre": 75,
	"Soddisfatto":  75,

	"Sufficiente":     50,
	"Qualche ritardo": 50,
	"Neutrale":        50,

	"Insufficiente":     25,
	"Scarso":            25,
	"Spesso in ritardo": 25,
	"Insoddisfatto":     25,
}

func DefaultScoreTable() ScoreTable {
	return NewScoreTable(nil)
}

// NewScoreTable scores the given questions, q2 q3 q4 and q7 when none are given.
func NewScoreTable(questions []string) ScoreTable {
	if len(questions) == 0 {
		questions = []string{"q2", "q3", "q4", "q7"}
	}
	return ScoreTable{Questions: questions, Values: DefaultScoreValues}
}

// Score is the mean of the recognised answers of the table's questions, 0 when there are none.
// Only string answers are looked up, by exact match.
func (st ScoreTable) Score(a Answers) float64 {
	var sum float64
	var n int
	for _, q := range st.Questions {
		s, ok := a.Text(q)
		if !ok {
			continue
		}
		if v, ok := st.Values[s]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
