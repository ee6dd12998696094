package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/tui"
)

type fillOptions struct {
	defaults string
	fields   string
	schema   SchemaOptions
	output   string
	sanitize bool
}

// NewFillCommand creates the interactive fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &fillOptions{}

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Prompt for form values and print them once valid",
		Long: `Fill prompts for every field, validating each one on blur, and submits
the form. Fields that fail the submit are asked again until
FORMSTATE_MAX_ATTEMPTS is reached.

Without --fields one text, number or checkbox prompt is derived per leaf of
the defaults document.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.defaults, "defaults", "", "default values (yaml or json)")
	cmd.Flags().StringVar(&opts.fields, "fields", "", "field list (yaml)")
	cmd.Flags().StringVar(&opts.schema.Path, "schema", "", "schema file (.cue, .json, .yaml)")
	cmd.Flags().StringVar(&opts.schema.Definition, "definition", "", "CUE definition to validate against")
	cmd.Flags().StringVar(&opts.schema.Component, "component", "", "OpenAPI component schema name")
	cmd.Flags().StringVar(&opts.output, "output", "json", "output format (json|form|pretty)")
	cmd.Flags().BoolVar(&opts.sanitize, "sanitize", true, "strip markup from text answers")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runFill(cmd *cobra.Command, rootOpts *RootOptions, opts *fillOptions) error {
	ctx := cmd.Context()
	logger := rootOpts.logger()

	format, err := tui.ParseOutputFormat(opts.output)
	if err != nil {
		return err
	}
	defaults, err := loadValues(opts.defaults)
	if err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	resolver, err := LoadResolver(ctx, opts.schema)
	if err != nil {
		return err
	}

	fields := tui.FieldsFromValues(defaults)
	if opts.fields != "" {
		fields, err = loadFields(opts.fields)
		if err != nil {
			return err
		}
	}

	formOpts := []form.Option{
		form.WithDefaultValues(defaults),
		form.WithResolver(resolver),
		form.WithLogger(logger),
		form.WithSerializedSubmit(),
	}
	if opts.sanitize {
		formOpts = append(formOpts, form.WithSanitizer(form.StrictSanitizer()))
	}
	f := form.New(formOpts...)

	driver := rootOpts.Driver
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	session, err := tui.NewSession(f, fields,
		tui.WithPromptDriver(driver),
		tui.WithMaxAttempts(rootOpts.maxAttempts()),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	values, err := session.Run(ctx)
	if err != nil {
		return err
	}
	out, err := tui.Encode(values, format)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	if format != tui.OutputFormatPrettyText {
		_, err = fmt.Fprintln(cmd.OutOrStdout())
	}
	return err
}

func loadFields(path string) ([]tui.Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}
	defer file.Close()
	return tui.LoadFields(file)
}
