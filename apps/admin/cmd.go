package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/Br01t/feedback-fort/core"
	"github.com/Br01t/feedback-fort/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL [-superadmin] - create or reactivate an account")
	fmt.Println("  resetpassword -email EMAIL - reset user's password")
	fmt.Println("  setrole -email EMAIL -role ROLE - change the role of an account")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (postgres only)")
}

func (cli *commandLine) readPassword(fs *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserSuperAdmin := addUserCmd.Bool("superadmin", false, "Grant the super admin role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	setRoleCmd := flag.NewFlagSet("setrole", flag.ContinueOnError)
	setRoleEmail := setRoleCmd.String("email", "", "The user's email.")
	setRoleRole := setRoleCmd.String("role", "", "The new role: user or super_admin.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword(addUserCmd)
		if err != nil {
			return err
		}
		return cli.addUser(*addUserEmail, pwd, *addUserSuperAdmin)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setRoleEmail == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		return cli.setRole(*setRoleEmail, *setRoleRole)

	case "migrate":
		if len(args) < 3 {
			fmt.Println("Usage: migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo|reset|status|version|create NAME [sql|go]|fix")
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}
