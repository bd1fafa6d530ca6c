package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
)

var groupByFields = map[string]string{
	"worker":  questionnaire.FieldWorker,
	"reparto": questionnaire.FieldDepartment,
}

// analysisApi serves the read-only views; load failures degrade to empty results.
type analysisApi struct {
	svc questionnaire.Service
}

func registerAnalysisAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := analysisApi{svc: deps.QuestionnaireSvc}

	g.GET("/dashboard", api.dashboard, jwt)

	ag := g.Group("/analysis", jwt)
	ag.GET("/workers", api.workers)
	ag.GET("/workers/:name", api.worker)
	ag.GET("/departments", api.departments)
	ag.GET("/departments/:name", api.department)
	ag.GET("/distribution", api.distribution)
}

func (api *analysisApi) load(ctx echo.Context) ([]questionnaire.Response, error) {
	filter, err := bindFilter(ctx)
	if err != nil {
		return nil, err
	}
	return api.svc.Load(ctx.Request().Context(), filter), nil
}

func (api *analysisApi) dashboard(ctx echo.Context) error {
	rs, err := api.load(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionnaire.ComputeStats(rs, api.svc.ScoreTable()))
}

func (api *analysisApi) workers(ctx echo.Context) error {
	rs, err := api.load(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionnaire.Workers(rs))
}

func (api *analysisApi) departments(ctx echo.Context) error {
	rs, err := api.load(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, questionnaire.Departments(rs))
}

// worker lists the responses of a worker, newest first, laid out question by question.
func (api *analysisApi) worker(ctx echo.Context) error {
	rs, err := api.load(ctx)
	if err != nil {
		return err
	}
	selected := questionnaire.SelectByKey(rs, questionnaire.FieldWorker, ctx.Param("name"))
	questionnaire.SortByCreatedAt(selected, false)

	out := make([]questionnaire.ResponseRows, 0, len(selected))
	for _, r := range selected {
		out = append(out, questionnaire.Rows(r))
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *analysisApi) department(ctx echo.Context) error {
	rs, err := api.load(ctx)
	if err != nil {
		return err
	}
	selected := questionnaire.SelectByKey(rs, questionnaire.FieldDepartment, ctx.Param("name"))
	return ctx.JSON(http.StatusOK, questionnaire.AnswersByQuestion(selected))
}

// distribution counts the answers of the selection (?by=worker|reparto&key=...),
// optionally restricted to some questions (?question=1.2,1.4).
func (api *analysisApi) distribution(ctx echo.Context) error {
	rs, err := api.load(ctx)
	if err != nil {
		return err
	}

	if by := ctx.QueryParam("by"); by != "" {
		field, ok := groupByFields[by]
		if !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "by", Error: "valori ammessi: worker, reparto"})
		}
		rs = questionnaire.SelectByKey(rs, field, ctx.QueryParam("key"))
	}

	var ids []string
	if q := ctx.QueryParam("question"); q != "" {
		for _, id := range strings.Split(q, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ctx.JSON(http.StatusOK, questionnaire.Distribution(rs, ids...))
}
