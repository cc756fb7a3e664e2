// Package admin_cli implements the landing-admin command line tool.
package admin_cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	auth_service "landing/internal/domain/ports/input/auth"
	user_repository "landing/internal/domain/ports/output/user"
)

// Services is what the user and session commands operate on.
type Services struct {
	Auth  auth_service.Service
	Users user_repository.Repository
}

type Migrator interface {
	Up() error
	Down() error
	Close() error
}

// Deps builds the backends lazily so that "migrate" never needs a pool and
// "--help" needs nothing at all.
type Deps struct {
	Services func(c *cli.Context) (*Services, func(), error)
	Migrator func(c *cli.Context) (Migrator, error)
	Out      io.Writer
}

func NewApp(d Deps) *cli.App {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}

	return &cli.App{
		Name:   "landing-admin",
		Usage:  "Administer landing users, sessions and schema",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "./config",
				Usage:   "Directory containing config.yaml",
				EnvVars: []string{"LANDING_CONFIG_DIR"},
			},
		},
		Commands: []*cli.Command{
			addUserCommand(d),
			listUsersCommand(d),
			purgeSessionsCommand(d),
			migrateCommand(d),
		},
	}
}

func withServices(d Deps, fn func(c *cli.Context, s *Services) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, closeFn, err := d.Services(c)
		if err != nil {
			return cli.Exit(fmt.Sprintf("connect: %v", err), 1)
		}
		defer closeFn()
		return fn(c, s)
	}
}

func addUserCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "add-user",
		Usage: "Create a user account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Email address",
				Required: true,
				EnvVars:  []string{"LANDING_ADMIN_EMAIL"},
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Password (8+ chars with upper, lower and digit)",
				Required: true,
				EnvVars:  []string{"LANDING_ADMIN_PASSWORD"},
			},
		},
		Action: withServices(d, func(c *cli.Context, s *Services) error {
			user, err := s.Auth.Register(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				switch {
				case errors.Is(err, custom_errors.ErrInvalidEmail):
					return cli.Exit("invalid email address", 1)
				case errors.Is(err, custom_errors.ErrPasswordRequirements):
					return cli.Exit("password must be 8 to 72 bytes long and contain an uppercase letter, a lowercase letter and a digit", 1)
				case errors.Is(err, custom_errors.ErrUserExists):
					return cli.Exit(fmt.Sprintf("user %s already exists", c.String("email")), 1)
				default:
					return cli.Exit(fmt.Sprintf("create user: %v", err), 1)
				}
			}
			fmt.Fprintf(c.App.Writer, "Created user %s (%s)\n", user.Email, user.ID)
			return nil
		}),
	}
}

func listUsersCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "list-users",
		Usage: "List user accounts",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "Page size (max 100)",
			},
			&cli.IntFlag{
				Name:  "offset",
				Value: 0,
				Usage: "Rows to skip",
			},
		},
		Action: withServices(d, func(c *cli.Context, s *Services) error {
			limit, offset := c.Int("limit"), c.Int("offset")
			if limit < 1 || limit > 100 {
				return cli.Exit("limit must be between 1 and 100", 1)
			}
			if offset < 0 {
				return cli.Exit("offset must not be negative", 1)
			}

			users, total, err := s.Users.List(c.Context, model.UserFilters{Limit: &limit, Offset: &offset})
			if err != nil {
				return cli.Exit(fmt.Sprintf("list users: %v", err), 1)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.UTC().Format(time.RFC3339))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%d of %d users\n", len(users), total)
			return nil
		}),
	}
}

func purgeSessionsCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "purge-sessions",
		Usage: "Delete expired sessions",
		Action: withServices(d, func(c *cli.Context, s *Services) error {
			n, err := s.Auth.PurgeExpiredSessions(c.Context)
			if err != nil {
				return cli.Exit(fmt.Sprintf("purge sessions: %v", err), 1)
			}
			fmt.Fprintf(c.App.Writer, "Purged %d expired sessions\n", n)
			return nil
		}),
	}
}

func migrateCommand(d Deps) *cli.Command {
	run := func(name string, step func(Migrator) error) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: fmt.Sprintf("Apply %s migrations", name),
			Action: func(c *cli.Context) error {
				m, err := d.Migrator(c)
				if err != nil {
					return cli.Exit(fmt.Sprintf("migrator: %v", err), 1)
				}
				defer func() { _ = m.Close() }()
				if err := step(m); err != nil {
					return cli.Exit(fmt.Sprintf("migrate %s: %v", name, err), 1)
				}
				fmt.Fprintf(c.App.Writer, "Migrate %s complete\n", name)
				return nil
			},
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Run schema migrations",
		Subcommands: []*cli.Command{
			run("up", Migrator.Up),
			run("down", Migrator.Down),
		},
	}
}

// Run executes the app and turns exit errors into a process exit code.
func Run(ctx context.Context, app *cli.App, args []string) int {
	app.ExitErrHandler = func(*cli.Context, error) {}
	if err := app.RunContext(ctx, args); err != nil {
		errOut := app.ErrWriter
		if errOut == nil {
			errOut = os.Stderr
		}
		fmt.Fprintln(errOut, err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}
