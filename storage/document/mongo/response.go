package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
)

var responseFields = map[string]string{
	"createdAt": "createdAt",
	"userEmail": "userEmail",
}

type responseDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	UserEmail string             `bson:"userEmail"`
	Answers   bson.M             `bson:"answers"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty"`
}

func (doc responseDoc) response() questionnaire.Response {
	r := questionnaire.Response{
		ID:        doc.ID.Hex(),
		UserID:    doc.UserID,
		UserEmail: doc.UserEmail,
		Answers:   make(questionnaire.Answers, len(doc.Answers)),
	}
	for k, v := range doc.Answers {
		r.Answers[k] = plain(v)
	}
	r.Answers = questionnaire.NormalizeAnswers(r.Answers)
	if doc.CreatedAt != nil {
		r.CreatedAt = utc(*doc.CreatedAt)
	}
	return r
}

// plain unwraps the driver's container types.
func plain(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	case primitive.M:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = plain(item)
		}
		return out
	case primitive.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = plain(e.Value)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	default:
		return val
	}
}

type responseRepository struct {
	coll *mongo.Collection
}

var _ questionnaire.Repository = (*responseRepository)(nil) // interface compliance check

func NewResponseRepository(db *mongo.Database) questionnaire.Repository {
	return &responseRepository{coll: db.Collection(responsesCollection)}
}

// CreateResponse stores the response with a server timestamp unless one is given.
func (repo *responseRepository) CreateResponse(ctx context.Context, r questionnaire.Response) (questionnaire.Response, error) {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = utc(createdAt)

	answers := bson.M{}
	for k, v := range questionnaire.NormalizeAnswers(r.Answers) {
		answers[k] = v
	}
	doc := responseDoc{
		UserID:    r.UserID,
		UserEmail: r.UserEmail,
		Answers:   answers,
		CreatedAt: &createdAt,
	}
	res, err := repo.coll.InsertOne(ctx, doc)
	if err != nil {
		return questionnaire.Response{}, errors.Wrap(err, "inserting response")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.response(), nil
}

// QueryResponses returns every response, newest first unless ordered otherwise.
// Responses without a timestamp always come last.
func (repo *responseRepository) QueryResponses(ctx context.Context, ordering ...core.DBOrdering) ([]questionnaire.Response, error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "createdAt"}}
	}
	sort := bson.D{}
	for _, ord := range ordering {
		field, ok := responseFields[ord.Field]
		if !ok {
			continue
		}
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}

	cur, err := repo.coll.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, errors.Wrap(err, "querying responses")
	}
	var docs []responseDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding responses")
	}

	rs := make([]questionnaire.Response, 0, len(docs))
	for _, doc := range docs {
		rs = append(rs, doc.response())
	}
	if ordering[0].Field == "createdAt" {
		questionnaire.SortByCreatedAt(rs, ordering[0].Ascending)
	}
	return rs, nil
}

func (repo *responseRepository) GetResponse(ctx context.Context, id string) (questionnaire.Response, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return questionnaire.Response{}, questionnaire.ErrNotFound
	}
	var doc responseDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return questionnaire.Response{}, questionnaire.ErrNotFound
		}
		return questionnaire.Response{}, errors.Wrap(err, "finding response")
	}
	return doc.response(), nil
}
