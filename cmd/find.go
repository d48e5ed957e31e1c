package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tabify/tabify/internal/shared"
)

func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Identify the song in a YouTube video and print tabs & lesson links",
		ArgsUsage: "<yt_url>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.FindSong,
	}
}

// FindSong runs the identification pipeline once and prints the result as JSON.
func (r *Runner) FindSong(ctx context.Context, cmd *cli.Command) error {
	ytURL := cmd.Args().First()
	if ytURL == "" {
		return fmt.Errorf("%w: YouTube URL is required", shared.ErrMissingArgument)
	}

	p, err := r.newPipeline()
	if err != nil {
		return err
	}

	result, err := p.Find(ctx, ytURL)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	return r.writeJSON(result, cmd.Bool("pretty"))
}
