package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
)

type questionnaireApi struct {
	svc     questionnaire.Service
	userSvc user.Service
}

func registerQuestionnaireAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := questionnaireApi{svc: deps.QuestionnaireSvc, userSvc: deps.UserSvc}

	g.GET("/questions", api.questions)

	rg := g.Group("/responses", jwt)
	rg.POST("", api.submit)
	rg.GET("", api.query)
	rg.GET("/:id", api.retrieve)
}

type CatalogResponse struct {
	Questions []questionnaire.Question `json:"questions"`
	Sections  []questionnaire.Section  `json:"sections"`
	Feedback  []questionnaire.Question `json:"feedback"`
}

func (api *questionnaireApi) questions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, CatalogResponse{
		Questions: questionnaire.Questions,
		Sections:  questionnaire.Sections(),
		Feedback:  questionnaire.FeedbackQuestions,
	})
}

func (api *questionnaireApi) submit(ctx echo.Context) error {
	var data questionnaire.NewResponse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResponse")
	}
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return err
	}

	r, err := api.svc.Submit(ctx.Request().Context(), usr.ID, usr.Email, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *questionnaireApi) query(ctx echo.Context) error {
	filter, err := bindFilter(ctx)
	if err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying responses")
	}
	return ctx.JSON(http.StatusOK, rs)
}

func (api *questionnaireApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == questionnaire.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding response")
	}
	return ctx.JSON(http.StatusOK, r)
}
