package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/utils/logging"
)

func purgeCommand() *cli.Command {
	var (
		cfg   config
		email string
		force bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Aliases:     []string{"e"},
			Usage:       "Email address whose history to delete",
			Sources:     cli.EnvVars("VITAE_EMAIL"),
			Destination: &email,
			Required:    true,
		},
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "Skip the confirmation prompt",
			Destination: &force,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete all persisted reflections for one profile",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(c); err != nil {
				return err
			}

			logger := logging.New(cfg.logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			key := model.NewProfileKey(email)

			if !force {
				fmt.Fprintf(c.Root().Writer, "Permanently delete all session history for %s? [y/N] ", key)
				scanner := bufio.NewScanner(os.Stdin)
				if !scanner.Scan() {
					return nil
				}
				answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
				if answer != "y" && answer != "yes" {
					fmt.Fprintf(c.Root().Writer, "Aborted.\n")
					return nil
				}
			}

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.ClearHistory(ctx, key); err != nil {
				return goerr.Wrap(err, "failed to purge history")
			}

			fmt.Fprintf(c.Root().Writer, "History purged for %s\n", key)
			return nil
		},
	}
}
