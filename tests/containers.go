//go:build integration

package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Br01t/feedback-fort/core"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (host string, mapped int) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating %s container: %v", req.Image, err)
		}
	})

	if host, err = container.Host(ctx); err != nil {
		t.Fatalf("getting %s host: %v", req.Image, err)
	}
	p, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("getting %s port: %v", req.Image, err)
	}
	return host, p.Int()
}

// StartPostgres runs a disposable PostgreSQL server and returns a config pointing at it.
func StartPostgres(t *testing.T) *core.Config {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")

	conf := core.NewTestConfig()
	conf.Database.Engine = "postgres"
	conf.Database.Host = host
	conf.Database.Port = strconv.Itoa(port)
	conf.Database.Name = "feedbackfort"
	conf.Database.User = "feedbackfort"
	conf.Database.Password = "feedbackfort"
	conf.Database.AdminUser = "postgres"
	conf.Database.AdminPassword = "postgres"
	conf.Database.DisableTLS = true
	return conf
}

// StartMongo runs a disposable MongoDB server and returns a config pointing at it.
func StartMongo(t *testing.T) *core.Config {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}, "27017/tcp")

	conf := core.NewTestConfig()
	conf.Database.Engine = "mongodb"
	conf.Database.URI = "mongodb://" + host + ":" + strconv.Itoa(port)
	conf.Database.Name = "feedbackfort_test"
	return conf
}
