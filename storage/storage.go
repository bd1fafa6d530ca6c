// Package storage opens the repositories of the configured database engine.
package storage

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
	"github.com/Br01t/feedback-fort/storage/database"
	sqlxrepos "github.com/Br01t/feedback-fort/storage/database/sqlx"
	mongorepos "github.com/Br01t/feedback-fort/storage/document/mongo"
	"github.com/Br01t/feedback-fort/storage/inmem"
)

const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineMongo    = "mongodb"
)

// Store groups the repositories of one engine.
type Store struct {
	Engine    string
	Users     user.Repository
	Responses questionnaire.Repository

	close func(ctx context.Context) error
}

// Close releases the underlying connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to conf.Database.Engine, preparing the schema (postgres migrations,
// mongo indexes) before returning the repositories.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) (*Store, error) {
	engine := conf.Database.Engine
	logger.Info(fmt.Sprintf("opening %s store", engine))

	switch engine {
	case EngineMemory, "":
		db := inmem.Open()
		return &Store{
			Engine:    EngineMemory,
			Users:     inmem.NewUserRepository(db),
			Responses: inmem.NewResponseRepository(db),
		}, nil

	case EnginePostgres:
		if conf.Database.URI == "" {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, errors.Wrap(err, "creating database")
			}
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{
			Engine:    EnginePostgres,
			Users:     sqlxrepos.NewUserRepository(db),
			Responses: sqlxrepos.NewResponseRepository(db),
			close:     func(context.Context) error { return db.Close() },
		}, nil

	case EngineMongo:
		client, db, err := mongorepos.Connect(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = mongorepos.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Engine:    EngineMongo,
			Users:     mongorepos.NewUserRepository(db),
			Responses: mongorepos.NewResponseRepository(db),
			close:     client.Disconnect,
		}, nil

	default:
		return nil, errors.Errorf("unsupported database engine %q", engine)
	}
}
