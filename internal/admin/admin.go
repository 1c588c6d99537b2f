// Package admin implements the operator CLI. Its only command creates an
// admin credential, which is the single way to obtain the admin role.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/flagx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
)

var ErrUsage = errors.New("usage: admin create-admin [-name NAME] [-email EMAIL] [server config flags]")

type AdminCreator interface {
	CreateAdmin(ctx context.Context, name, email, password string) (*models.Credential, error)
}

type App struct {
	in      *bufio.Reader
	out     io.Writer
	stdinFd int
	creator AdminCreator
}

// NewApp builds the CLI. stdinFd is used for echo-free password entry when
// it refers to a terminal; otherwise the password is read as a line from in.
func NewApp(in io.Reader, stdinFd int, out io.Writer, c AdminCreator) *App {
	return &App{in: bufio.NewReader(in), out: out, stdinFd: stdinFd, creator: c}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "create-admin":
		return a.createAdmin(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, ErrUsage.Error())
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	var name, email string

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&name, "name", "", "display name")
	fs.StringVar(&email, "email", "", "login email")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "--name", "-email", "--email"})); err != nil {
		return err
	}

	var err error
	if name == "" {
		if name, err = GetSimpleText(a.in, "Enter name", a.out); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = GetSimpleText(a.in, "Enter email", a.out); err != nil {
			return err
		}
	}
	if email == "" {
		return errors.New("email is required")
	}

	password, err := a.password()
	if err != nil {
		return err
	}

	c, err := a.creator.CreateAdmin(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("an account with email %s already exists", email)
		}
		if errors.Is(err, common.ErrPasswordTooLong) {
			return errors.New("password must be at most 72 bytes")
		}
		return err
	}

	fmt.Fprintf(a.out, "Admin %s created (id %s)\n", c.Email, c.ID)
	return nil
}

func (a *App) password() (string, error) {
	if !isTerminal(a.stdinFd) {
		pw, err := GetSimpleText(a.in, "Enter password", a.out)
		if err != nil {
			return "", err
		}
		if pw == "" {
			return "", errors.New("password is required")
		}
		return pw, nil
	}

	pw, err := GetPassword(a.stdinFd, "Enter password", a.out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("password is required")
	}

	confirm, err := GetPassword(a.stdinFd, "Repeat password", a.out)
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}
