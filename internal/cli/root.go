// Package cli implements the formstate command line.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/pkg/tui"
)

// RootOptions is shared by every subcommand.
type RootOptions struct {
	Config config.Config
	Logger *slog.Logger
	// Driver replaces the survey prompts; tests script it.
	Driver tui.PromptDriver
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) maxAttempts() int {
	if o.Config.MaxAttempts < 1 {
		return 3
	}
	return o.Config.MaxAttempts
}

// NewRootCommand creates the formstate root command. Configuration and the
// logger are loaded from the environment before any subcommand runs.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "formstate",
		Short: "Fill and validate forms from the terminal",
		Long: `formstate binds a set of values to a form, validates them with an
OpenAPI or CUE schema and either prompts for them interactively (fill) or
checks a prepared document (validate).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = logger
			return nil
		},
	}

	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}
