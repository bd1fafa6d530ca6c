package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/report"
)

type reportApi struct {
	svc questionnaire.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := reportApi{svc: deps.QuestionnaireSvc}

	rg := g.Group("/reports", jwt)
	rg.GET("/departments/:name", api.department)
	rg.GET("/workers/:name", api.worker)
}

type tableBuilder func(rs []questionnaire.Response, key string, opts report.Options) (report.Table, error)

func (api *reportApi) department(ctx echo.Context) error {
	return api.export(ctx, report.DepartmentTable)
}

func (api *reportApi) worker(ctx echo.Context) error {
	return api.export(ctx, report.WorkerTable)
}

func (api *reportApi) export(ctx echo.Context, build tableBuilder) error {
	format, err := report.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "format", Error: err.Error()})
	}
	filter, err := bindFilter(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	rs := api.svc.Load(ctx.Request().Context(), filter)
	table, err := build(rs, ctx.Param("name"), report.Options{Now: now})
	if err != nil {
		if err == report.ErrEmpty {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return errors.Wrap(err, "building report")
	}

	var buf bytes.Buffer
	if err = report.Write(&buf, table, format); err != nil {
		return errors.Wrap(err, "writing report")
	}

	filename := report.Filename(table.Kind, table.Key, now, format)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
