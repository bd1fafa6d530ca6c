package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/storage"
	"github.com/Br01t/feedback-fort/storage/database"
)

var (
	gooseRunFunc = runMigration // mockable

	errNoMigrations = errors.New("migrations are only available with the postgres engine")
)

func runMigration(conf *core.Config, command string, args ...string) error {
	db, err := database.Open(context.Background(), conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return database.RunMigration(db, command, args...)
}

func (cli *commandLine) migrate(args []string) error {
	if cli.conf.Database.Engine != storage.EnginePostgres {
		return errNoMigrations
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(cli.conf, args[0], arguments...)
}
