package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
)

type responseRepository struct {
	db *responseTable
}

var _ questionnaire.Repository = (*responseRepository)(nil)

func NewResponseRepository(db *DB) questionnaire.Repository {
	return &responseRepository{db: db.responses}
}

func (repo *responseRepository) CreateResponse(_ context.Context, r questionnaire.Response) (questionnaire.Response, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = uuid.NewString()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Answers = questionnaire.NormalizeAnswers(r.Answers)
	repo.db.table[r.ID] = &r
	repo.db.order = append(repo.db.order, r.ID)
	return r, nil
}

// QueryResponses returns every response, newest first unless ordered otherwise.
func (repo *responseRepository) QueryResponses(_ context.Context, ordering ...core.DBOrdering) ([]questionnaire.Response, error) {
	repo.db.mutex.RLock()
	rs := make([]questionnaire.Response, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		rs = append(rs, *repo.db.table[id])
	}
	repo.db.mutex.RUnlock()

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "createdAt"}}
	}
	for i := len(ordering) - 1; i >= 0; i-- {
		switch ord := ordering[i]; ord.Field {
		case "createdAt":
			questionnaire.SortByCreatedAt(rs, ord.Ascending)
		case "userEmail":
			sortByEmail(rs, ord.Ascending)
		}
	}
	return rs, nil
}

func (repo *responseRepository) GetResponse(_ context.Context, id string) (questionnaire.Response, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return questionnaire.Response{}, questionnaire.ErrNotFound
}

func sortByEmail(rs []questionnaire.Response, ascending bool) {
	sort.SliceStable(rs, func(i, j int) bool {
		if ascending {
			return rs[i].UserEmail < rs[j].UserEmail
		}
		return rs[i].UserEmail > rs[j].UserEmail
	})
}
