package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/tabify/tabify/internal/media"
	"github.com/tabify/tabify/internal/pipeline"
	"github.com/tabify/tabify/internal/services"
	"github.com/tabify/tabify/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	fetcher    media.Fetcher
	recognizer services.Recognizer
	catalog    services.Catalog
	tabs       services.TabResolver
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Fetcher    media.Fetcher
	Recognizer services.Recognizer
	Catalog    services.Catalog
	Tabs       services.TabResolver
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		fetcher:    opts.Fetcher,
		recognizer: opts.Recognizer,
		catalog:    opts.Catalog,
		tabs:       opts.Tabs,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, findCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// newPipeline assembles the identification pipeline from the runner's collaborators.
func (r *Runner) newPipeline() (*pipeline.Pipeline, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("uninitialized catalog service: %w", shared.ErrMissingCredentials)
	}

	return pipeline.New(pipeline.Opts{
		Fetcher:    r.fetcher,
		Recognizer: r.recognizer,
		Catalog:    r.catalog,
		Tabs:       r.tabs,
		Logger:     r.logger,
		Timeouts:   pipeline.TimeoutsFromConfig(r.config.Pipeline),
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
