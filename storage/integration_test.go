//go:build integration

package storage_test

import (
	"testing"

	testutil "github.com/Br01t/feedback-fort/tests"
)

func TestPostgresRepositories(t *testing.T) {
	testRepositories(t, openStore(t, testutil.StartPostgres(t)))
}

func TestMongoRepositories(t *testing.T) {
	testRepositories(t, openStore(t, testutil.StartMongo(t)))
}
