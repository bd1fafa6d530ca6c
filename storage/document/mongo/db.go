// Package mongorepos implements the repositories on MongoDB, mirroring the collections
// of the hosted document store: users, userProfiles and responses.
package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Br01t/feedback-fort/core"
)

const (
	usersCollection     = "users"
	profilesCollection  = "userProfiles"
	responsesCollection = "responses"

	connectTimeout = 10 * time.Second
	defaultURI     = "mongodb://localhost:27017"
)

// Connect opens a client on conf.Database.URI (a local server when unset), checks it answers
// and returns the application database.
func Connect(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	uri := conf.Database.URI
	if uri == "" {
		uri = defaultURI
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName(conf.AppName))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "pinging mongodb")
	}
	return client, client.Database(conf.Database.Name), nil
}

// EnsureIndexes creates the indexes the repositories rely on; existing ones are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		profilesCollection: {
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		responsesCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "answers.meta_nome", Value: 1}}},
			{Keys: bson.D{{Key: "answers.meta_reparto", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}
