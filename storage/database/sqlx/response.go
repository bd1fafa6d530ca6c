package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
)

var responseColumns = map[string]string{
	"createdAt": "created_at",
	"userEmail": "user_email",
}

type responseRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	UserEmail string         `db:"user_email"`
	Answers   types.JSONText `db:"answers"`
	CreatedAt null.Time      `db:"created_at"`
}

func (row responseRow) response() (questionnaire.Response, error) {
	var answers questionnaire.Answers
	if err := row.Answers.Unmarshal(&answers); err != nil {
		return questionnaire.Response{}, errors.Wrapf(err, "decoding answers of response %s", row.ID)
	}
	r := questionnaire.Response{
		ID:        row.ID,
		UserID:    row.UserID,
		UserEmail: row.UserEmail,
		Answers:   questionnaire.NormalizeAnswers(answers),
	}
	if row.CreatedAt.Valid {
		r.CreatedAt = row.CreatedAt.Time.UTC()
	}
	return r, nil
}

type responseRepository struct {
	exec core.DBExecutor
}

var _ questionnaire.Repository = (*responseRepository)(nil) // interface compliance check

func NewResponseRepository(exec core.DBExecutor) questionnaire.Repository {
	return &responseRepository{exec: exec}
}

// CreateResponse stores the response with a server timestamp unless one is given.
func (repo *responseRepository) CreateResponse(ctx context.Context, r questionnaire.Response) (questionnaire.Response, error) {
	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Answers = questionnaire.NormalizeAnswers(r.Answers)
	if r.Answers == nil {
		r.Answers = questionnaire.Answers{}
	}

	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return questionnaire.Response{}, errors.Wrap(err, "encoding answers")
	}
	row := responseRow{
		ID:        r.ID,
		UserID:    r.UserID,
		UserEmail: r.UserEmail,
		Answers:   types.JSONText(answers),
		CreatedAt: null.TimeFrom(r.CreatedAt.UTC()),
	}
	q := `INSERT INTO responses (id, user_id, user_email, answers, created_at)
		VALUES (:id, :user_id, :user_email, :answers, :created_at)`
	if _, err = repo.exec.NamedExecContext(ctx, q, row); err != nil {
		return questionnaire.Response{}, errors.Wrap(err, "inserting response")
	}
	return row.response()
}

// QueryResponses returns every response, newest first unless ordered otherwise.
// Responses without a timestamp always come last.
func (repo *responseRepository) QueryResponses(ctx context.Context, ordering ...core.DBOrdering) ([]questionnaire.Response, error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "createdAt"}}
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		col, ok := responseColumns[ord.Field]
		if !ok {
			continue
		}
		ord.Field = col
		orderList = append(orderList, ord.String()+" NULLS LAST")
	}

	q := `SELECT * FROM responses`
	if len(orderList) > 0 {
		q += " ORDER BY " + strings.Join(orderList, ", ")
	}
	var rows []responseRow
	if err := repo.exec.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying responses")
	}

	rs := make([]questionnaire.Response, 0, len(rows))
	for _, row := range rows {
		r, err := row.response()
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func (repo *responseRepository) GetResponse(ctx context.Context, id string) (questionnaire.Response, error) {
	if _, err := uuid.Parse(id); err != nil {
		return questionnaire.Response{}, questionnaire.ErrNotFound
	}
	var row responseRow
	if err := repo.exec.GetContext(ctx, &row, `SELECT * FROM responses WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return questionnaire.Response{}, questionnaire.ErrNotFound
		}
		return questionnaire.Response{}, errors.Wrap(err, "finding response")
	}
	return row.response()
}
