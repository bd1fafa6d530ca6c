// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/questionnaire"
	"github.com/Br01t/feedback-fort/core/user"
	logsvc "github.com/Br01t/feedback-fort/services/logger"
)

// NewLogger returns a silent logger that never reports to Rollbar.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator with every application validator registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	questionnaire.InitValidators(validate, translator)
	return validate
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) (user.User, user.Profile) {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Email:     email,
		IsActive:  core.Bool(isActive),
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	ctx := context.Background()
	usr, err := repo.CreateUser(ctx, usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	profile, err := repo.SaveProfile(ctx, user.NewProfile(usr, role))
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr, profile
}

func CreateResponse(
	t *testing.T,
	repo questionnaire.Repository,
	usr user.User,
	answers questionnaire.Answers,
	createdAt ...time.Time,
) questionnaire.Response {
	t.Helper()
	r := questionnaire.Response{
		UserID:    usr.ID,
		UserEmail: usr.Email,
		Answers:   answers,
	}
	if len(createdAt) > 0 {
		r.CreatedAt = createdAt[0].UTC()
	}
	r, err := repo.CreateResponse(context.Background(), r)
	if err != nil {
		t.Fatalf("CreateResponse() failed: %v", err)
	}
	return r
}
