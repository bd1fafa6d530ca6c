package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
)

var (
	orderingParam   = "ordering"
	dateFromParam   = "date_from"
	dateToParam     = "date_to"
	workerParam     = "worker"
	departmentParam = "reparto"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindFilter reads the date range, worker and department query params.
func bindFilter(ctx echo.Context) (questionnaire.Filter, error) {
	var (
		filter questionnaire.Filter
		fields []core.FieldError
		err    error
	)

	if v := ctx.QueryParam(dateFromParam); v != "" {
		if filter.From, err = questionnaire.ParseDate(v); err != nil {
			fields = append(fields, core.FieldError{Field: dateFromParam, Error: err.Error()})
		}
	}
	if v := ctx.QueryParam(dateToParam); v != "" {
		if filter.To, err = questionnaire.ParseDate(v); err != nil {
			fields = append(fields, core.FieldError{Field: dateToParam, Error: err.Error()})
		}
	}
	if len(fields) > 0 {
		return questionnaire.Filter{}, core.NewValidationError(nil, fields...)
	}

	filter.Worker = ctx.QueryParam(workerParam)
	filter.Department = ctx.QueryParam(departmentParam)
	return filter, nil
}
