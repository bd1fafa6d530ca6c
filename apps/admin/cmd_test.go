package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/user"
	"github.com/Br01t/feedback-fort/storage"
	"github.com/Br01t/feedback-fort/storage/inmem"
	testutil "github.com/Br01t/feedback-fort/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	usrRepo = inmem.NewUserRepository(inmem.Open())

	// start CLI
	return &commandLine{
		conf:    core.NewTestConfig(),
		usrRepo: usrRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
		}
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var ran []string
	gooseRunFunc = func(conf *core.Config, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	t.Run("postgres only", func(t *testing.T) {
		err := cli.run([]string{"admin", "migrate", "up"})
		assert.Equal(t, errNoMigrations, err)
	})

	cli.conf.Database.Engine = storage.EnginePostgres

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_sites", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}
	assert.Equal(t, []string{"up", "up-to", "down-to", "status", "create"}, ran)
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()
	existing, _ := testutil.CreateUser(t, usrRepo, "off@test.it", "secret123", user.RoleUser, false)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"adduser", "-email", "new@test.it"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-email", "New@Test.it"}, extra: extra{pwd: "secret123"}},
		{name: "create super admin", args: []string{"adduser", "-email", "boss@test.it", "-superadmin"}, extra: extra{pwd: "secret123"}},
		{name: "reactivate", args: []string{"adduser", "-email", existing.Email}, extra: extra{pwd: "newsecret"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	check := func(email, pwd, role string) user.User {
		usr, err := usrRepo.GetUser(ctx, user.GetFilter{Email: email})
		require.NoError(t, err)
		assert.True(t, usr.Active())
		assert.NoError(t, usr.CheckPassword(pwd))
		profile, err := usrRepo.GetProfile(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, role, profile.Role)
		return usr
	}
	check("new@test.it", "secret123", user.RoleUser)
	check("boss@test.it", "secret123", user.RoleSuperAdmin)
	usr := check(existing.Email, "newsecret", user.RoleUser)
	assert.Equal(t, existing.ID, usr.ID)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	usr, _ := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.it"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.it"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "MARIO@test.it"}, extra: extra{pwd: "lmao1234"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			checkErr(t, tt, err)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			}
		})
	}
}

func Test_commandLine_setRole(t *testing.T) {
	cli := setup(t)
	usr, _ := testutil.CreateUser(t, usrRepo, "mario@test.it", "secret123", user.RoleUser, true)

	tests := []cliTest{
		{name: "no args", args: []string{"setrole", "-email", usr.Email}, wantErr: errHelp},
		{name: "unknown role", args: []string{"setrole", "-email", usr.Email, "-role", "god"}, wantErr: errUnknownRole},
		{name: "user not found", args: []string{"setrole", "-email", "lol@test.it", "-role", "user"}, wantErr: user.ErrNotFound},
		{name: "promote", args: []string{"setrole", "-email", usr.Email, "-role", "SUPER_ADMIN"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	profile, err := usrRepo.GetProfile(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleSuperAdmin, profile.Role)
}
