package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/utils/logging"
)

func archiveCommand() *cli.Command {
	var (
		cfg   config
		email string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Aliases:     []string{"e"},
			Usage:       "Email address whose history to list",
			Sources:     cli.EnvVars("VITAE_EMAIL"),
			Destination: &email,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "archive",
		Usage: "List persisted reflections for one profile",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(c); err != nil {
				return err
			}

			logger := logging.New(cfg.logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			key := model.NewProfileKey(email)
			history, err := repo.GetHistory(ctx, key)
			if err != nil {
				return goerr.Wrap(err, "failed to load history")
			}

			if len(history) == 0 {
				fmt.Fprintf(c.Root().Writer, "No records found for %s\n", key)
				return nil
			}

			for _, r := range history {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\n",
					r.CreatedAt.Format("2006-01-02 15:04"), r.ID, r.Content)
				if r.AIResponse != "" {
					fmt.Fprintf(c.Root().Writer, "\t\t%s\n", r.AIResponse)
				}
			}

			return nil
		},
	}
}
