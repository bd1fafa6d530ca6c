package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/user"
)

var errUnknownRole = errors.New("unknown role")

// setRole changes the profile role, creating the default profile when missing.
func (cli *commandLine) setRole(email, role string) error {
	role = core.CleanString(role, true /* lower */)
	if !user.ValidRole(role) {
		return errors.Wrap(errUnknownRole, fmt.Sprintf("%q", role))
	}

	ctx := context.Background()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		return err
	}
	profile, err := cli.usrRepo.GetProfile(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		profile = user.NewProfile(usr, role)
	}
	profile.Role = role
	_, err = cli.usrRepo.SaveProfile(ctx, profile)
	return err
}
