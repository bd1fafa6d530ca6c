package questionnaire_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/storage/inmem"
	testutil "github.com/Br01t/feedback-fort/tests"
)

func setup(t *testing.T) (questionnaire.Service, questionnaire.Repository) {
	conf := core.NewTestConfig()
	repo := inmem.NewResponseRepository(inmem.Open())
	svc := questionnaire.NewService(repo, testutil.NewLogger(conf), testutil.NewValidator(), conf)
	return svc, repo
}

func TestService_Submit(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		answers   questionnaire.Answers
		wantField string
	}{
		{name: "answers required", wantField: "answers"},
		{name: "worker required", answers: questionnaire.Answers{"1.2": "SI"}, wantField: "answers.meta_nome"},
		{name: "worker blank", answers: questionnaire.Answers{questionnaire.FieldWorker: "  "}, wantField: "answers.meta_nome"},
		{name: "worker not a string", answers: questionnaire.Answers{questionnaire.FieldWorker: float64(1)}, wantField: "answers.meta_nome"},
		{name: "valid", answers: questionnaire.Answers{questionnaire.FieldWorker: "Mario Rossi", "extra": "kept"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().UTC()
			r, err := svc.Submit(ctx, "uid", "mario@test.it", questionnaire.NewResponse{Answers: tt.answers})
			if tt.wantField != "" {
				var vErrs validator.ValidationErrors
				require.ErrorAs(t, err, &vErrs)
				assert.Equal(t, tt.wantField, vErrs[0].Field())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, r.ID)
			assert.Equal(t, "uid", r.UserID)
			assert.Equal(t, "mario@test.it", r.UserEmail)
			assert.Equal(t, "kept", r.Answers["extra"])
			assert.False(t, r.CreatedAt.Before(before.Truncate(time.Second)))
		})
	}
}

func TestService_QueryAndGet(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	jan := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	r1 := createResponse(t, repo, "Mario Rossi", "IT", jan)
	r2 := createResponse(t, repo, "Anna Bianchi", "HR", feb)

	got, err := svc.Query(ctx, questionnaire.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []questionnaire.Response{r2, r1}, got)

	got, err = svc.Query(ctx, questionnaire.Filter{}, core.DBOrdering{Field: "createdAt", Ascending: true}, core.DBOrdering{Field: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, []questionnaire.Response{r1, r2}, got)

	got = svc.Load(ctx, questionnaire.Filter{Worker: "Mario Rossi"})
	assert.Equal(t, []questionnaire.Response{r1}, got)

	got = svc.Load(ctx, questionnaire.Filter{DateRange: questionnaire.DateRange{From: feb}})
	assert.Equal(t, []questionnaire.Response{r2}, got)

	one, err := svc.Get(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, r1, one)

	_, err = svc.Get(ctx, "missing")
	assert.Equal(t, questionnaire.ErrNotFound, err)
}

func TestService_ScoreTableFromConfig(t *testing.T) {
	conf := core.NewTestConfig()
	conf.ScoreQuestions = []string{"q7"}
	svc := questionnaire.NewService(inmem.NewResponseRepository(inmem.Open()), testutil.NewLogger(conf), testutil.NewValidator(), conf)
	assert.Equal(t, []string{"q7"}, svc.ScoreTable().Questions)
}

func createResponse(t *testing.T, repo questionnaire.Repository, worker, dept string, at time.Time) questionnaire.Response {
	t.Helper()
	r, err := repo.CreateResponse(context.Background(), questionnaire.Response{
		UserID:    "uid",
		UserEmail: "u@test.it",
		Answers:   questionnaire.Answers{questionnaire.FieldWorker: worker, questionnaire.FieldDepartment: dept},
		CreatedAt: at,
	})
	require.NoError(t, err)
	return r
}
