package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tabify/tabify/internal/repositories"
	"github.com/tabify/tabify/internal/shared"
)

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent song lookups",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of lookups to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.History,
	}
}

// History prints the most recent lookups, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewLookupRepository(db)
	lookups, err := repo.Recent(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(lookups, cmd.Bool("pretty"))
	}

	if len(lookups) == 0 {
		return r.writePlainln("No lookups recorded yet.")
	}

	for _, lookup := range lookups {
		if err := r.writePlain("%s by %s\n  %s\n", lookup.Song(), lookup.Artist(), lookup.SourceURL()); err != nil {
			return err
		}
	}

	return nil
}
