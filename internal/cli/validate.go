package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
)

// ErrInvalidValues is returned after the report when validation fails, so
// the process exits non-zero.
var ErrInvalidValues = errors.New("values are invalid")

// ValidationResult is the json report of the validate command.
type ValidationResult struct {
	Valid  bool             `json:"valid"`
	Errors form.FieldErrors `json:"errors,omitempty"`
}

type validateOptions struct {
	values       string
	schema       SchemaOptions
	serverErrors string
	format       string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a values document against a schema",
		Long: `Validate loads a YAML or JSON values document into a form, runs the
schema resolver over the whole form and reports every field error.

--server-errors merges a server error payload (path -> messages) into the
report, mapping keys such as "/body/email" onto the form's fields.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.values, "values", "", "values document (yaml or json)")
	cmd.Flags().StringVar(&opts.schema.Path, "schema", "", "schema file (.cue, .json, .yaml)")
	cmd.Flags().StringVar(&opts.schema.Definition, "definition", "", "CUE definition to validate against")
	cmd.Flags().StringVar(&opts.schema.Component, "component", "", "OpenAPI component schema name")
	cmd.Flags().StringVar(&opts.serverErrors, "server-errors", "", "server error payload to merge (yaml or json)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|json)")
	_ = cmd.MarkFlagRequired("values")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, opts *validateOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("invalid format %q: must be one of [text json]", opts.format)
	}
	ctx := cmd.Context()
	logger := rootOpts.logger()

	values, err := loadValues(opts.values)
	if err != nil {
		return fmt.Errorf("load values: %w", err)
	}
	resolver, err := LoadResolver(ctx, opts.schema)
	if err != nil {
		return err
	}

	f := form.New(
		form.WithDefaultValues(values),
		form.WithResolver(resolver),
		form.WithLogger(logger),
	)
	if _, err := f.Trigger(ctx); err != nil {
		return err
	}
	if opts.serverErrors != "" {
		payload, err := loadServerErrors(opts.serverErrors)
		if err != nil {
			return err
		}
		f.SetServerErrors(payload)
	}

	state := f.State()
	logger.Info("validated", "form_id", f.ID(), "valid", state.IsValid, "errors", len(state.Errors))

	result := ValidationResult{Valid: state.IsValid, Errors: state.Errors}
	if err := writeValidation(cmd.OutOrStdout(), opts.format, result); err != nil {
		return err
	}
	if !result.Valid {
		return ErrInvalidValues
	}
	return nil
}

func writeValidation(w io.Writer, format string, result ValidationResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Valid {
		_, err := fmt.Fprintln(w, "✓ values valid")
		return err
	}
	keys := make([]string, 0, len(result.Errors))
	for key := range result.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if _, err := fmt.Fprintf(w, "✗ %d error(s)\n", len(keys)); err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", key, result.Errors[key]); err != nil {
			return err
		}
	}
	return nil
}

func loadServerErrors(path string) (map[string][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load server errors: %w", err)
	}
	defer file.Close()

	payload := map[string][]string{}
	if err := yaml.NewDecoder(file).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load server errors: %w", err)
	}
	return payload, nil
}
