package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/user"
)

// addUser creates the account, or reactivates it with the new password when the email is taken.
// An existing role is kept unless superAdmin is set.
func (cli *commandLine) addUser(email, pwd string, superAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	created := false
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{ID: uuid.NewString(), Email: email, CreatedAt: now}
		created = true
	}
	usr.IsActive = core.Bool(true)
	usr.UpdatedAt = now
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}

	if created {
		usr, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		usr, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	if err != nil {
		return err
	}

	profile, err := cli.usrRepo.GetProfile(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		profile = user.NewProfile(usr, user.RoleUser)
	}
	if superAdmin {
		profile.Role = user.RoleSuperAdmin
	}
	_, err = cli.usrRepo.SaveProfile(ctx, profile)
	return err
}
