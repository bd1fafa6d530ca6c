package questionnaire

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
)

var (
	ErrNotFound = errors.New("response not found")

	orderingFields = map[string]bool{"createdAt": true, "userEmail": true}
)

type (
	Service interface {
		Submit(ctx context.Context, userID, userEmail string, nr NewResponse) (Response, error)
		Query(ctx context.Context, filter Filter, ordering ...core.DBOrdering) ([]Response, error)
		// Load is Query for read-only views: failures are logged and yield an empty list.
		Load(ctx context.Context, filter Filter) []Response
		Get(ctx context.Context, id string) (Response, error)
		ScoreTable() ScoreTable
	}

	service struct {
		repo     Repository
		logger   core.Logger
		validate *validator.Validate
		scores   ScoreTable
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger, validate *validator.Validate, conf *core.Config) Service {
	return &service{
		repo:     repo,
		logger:   logger,
		validate: validate,
		scores:   NewScoreTable(conf.ScoreQuestions),
	}
}

func (svc *service) ScoreTable() ScoreTable {
	return svc.scores
}

// Submit stores a new response; the creation time is set by the store.
func (svc *service) Submit(ctx context.Context, userID, userEmail string, nr NewResponse) (Response, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Response{}, err
	}
	r, err := svc.repo.CreateResponse(ctx, Response{
		UserID:    userID,
		UserEmail: userEmail,
		Answers:   nr.Answers,
	})
	if err != nil {
		return Response{}, errors.Wrap(err, "creating response")
	}
	return r, nil
}

func (svc *service) Query(ctx context.Context, filter Filter, ordering ...core.DBOrdering) ([]Response, error) {
	valid := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if orderingFields[ord.Field] {
			valid = append(valid, ord)
		}
	}
	rs, err := svc.repo.QueryResponses(ctx, valid...)
	if err != nil {
		return nil, errors.Wrap(err, "querying responses")
	}
	return filter.Apply(rs), nil
}

func (svc *service) Load(ctx context.Context, filter Filter) []Response {
	rs, err := svc.Query(ctx, filter)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("loading responses: %v", err), err)
		return []Response{}
	}
	return rs
}

func (svc *service) Get(ctx context.Context, id string) (Response, error) {
	return svc.repo.GetResponse(ctx, id)
}
