package questionnaire

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Br01t/feedback-fort/core"
)

// EmptyAnswer is how a missing or blank answer is rendered.
const EmptyAnswer = "—"

// Answers maps question ids to loosely typed values:
// string, float64, bool, []string or nil.
type Answers map[string]interface{}

type (
	Response struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		UserEmail string    `json:"userEmail"`
		Answers   Answers   `json:"answers"`
		CreatedAt time.Time `json:"createdAt"`
	}

	NewResponse struct {
		Answers Answers `json:"answers" validate:"required"`
	}

	Repository interface {
		// CreateResponse stores r; a zero CreatedAt is set to the current time.
		CreateResponse(ctx context.Context, r Response) (Response, error)
		QueryResponses(ctx context.Context, ordering ...core.DBOrdering) ([]Response, error)
		GetResponse(ctx context.Context, id string) (Response, error)
	}
)

func (nr *NewResponse) Validate(validate *validator.Validate) error {
	nr.Answers = NormalizeAnswers(nr.Answers)
	return validate.Struct(nr)
}

// Worker returns the literal worker name of the response, "" when unknown.
func (r Response) Worker() string {
	k, _ := GroupKey(r, FieldWorker)
	return k
}

// Department returns the literal department of the response, "" when unknown.
func (r Response) Department() string {
	k, _ := GroupKey(r, FieldDepartment)
	return k
}

// Literal renders the answer the way a loosely typed client would stringify it:
// a missing key is "undefined", a nil value "null" and arrays are comma joined.
func (a Answers) Literal(id string) string {
	v, ok := a[id]
	if !ok {
		return "undefined"
	}
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ",")
	default:
		return toString(val)
	}
}

// Render returns the display text of an answer: EmptyAnswer for missing, nil or blank values,
// arrays joined with ", ".
func (a Answers) Render(id string) string {
	v, ok := a[id]
	if !ok || v == nil {
		return EmptyAnswer
	}
	var s string
	switch val := v.(type) {
	case []string:
		s = strings.Join(val, ", ")
	default:
		s = a.Literal(id)
	}
	if s == "" {
		return EmptyAnswer
	}
	return s
}

// Text returns the answer when it is a string.
func (a Answers) Text(id string) (string, bool) {
	s, ok := a[id].(string)
	return s, ok
}

// NormalizeAnswers converts decoded values to the supported answer types.
func NormalizeAnswers(a Answers) Answers {
	if a == nil {
		return nil
	}
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, string, bool, float64, []string:
		return val
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case map[string]interface{}:
		// nested objects are kept as their JSON text
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	case []interface{}:
		ss := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			ss = append(ss, toString(normalizeValue(item)))
		}
		return ss
	default:
		return toString(val)
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ",")
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}

// SortByCreatedAt orders responses by creation time; responses without a timestamp go last.
func SortByCreatedAt(rs []Response, ascending bool) {
	sort.SliceStable(rs, func(i, j int) bool {
		ti, tj := rs[i].CreatedAt, rs[j].CreatedAt
		if ti.IsZero() != tj.IsZero() {
			return tj.IsZero()
		}
		if ascending {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})
}

var (
	workerRequiredTag  = "worker_required"
	workerRequiredText = "il nome del lavoratore è obbligatorio"
)

// InitValidators registers the response validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(responseStructValidation, NewResponse{})
	core.RegisterCustomTranslation(validate, translator, workerRequiredTag, workerRequiredText)
}

func responseStructValidation(sl validator.StructLevel) {
	nr, ok := sl.Current().Interface().(NewResponse)
	if !ok || nr.Answers == nil {
		return
	}
	if s, ok := nr.Answers.Text(FieldWorker); !ok || strings.TrimSpace(s) == "" {
		sl.ReportError(nr.Answers, "answers."+FieldWorker, "Answers", workerRequiredTag, "")
	}
}
