package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/resolvers/cueschema"
	"github.com/goliatone/go-formstate/pkg/resolvers/openapischema"
)

// SchemaOptions selects the schema file and, optionally, the part of it to
// validate against.
type SchemaOptions struct {
	Path string
	// Definition names a CUE definition such as "#Signup".
	Definition string
	// Component names a schema under components.schemas when Path holds a
	// full OpenAPI document.
	Component string
}

// LoadResolver picks a resolver by file extension: .cue compiles a CUE
// schema, .json, .yaml and .yml load an OpenAPI schema object.
func LoadResolver(ctx context.Context, opts SchemaOptions) (form.Resolver, error) {
	ext := strings.ToLower(filepath.Ext(opts.Path))
	switch ext {
	case ".cue", ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("unsupported schema extension %q", ext)
	}
	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	if ext == ".cue" {
		return compileCUE(raw, opts)
	}
	return loadOpenAPI(ctx, raw, ext, opts)
}

func compileCUE(raw []byte, opts SchemaOptions) (form.Resolver, error) {
	r, err := cueschema.Compile(string(raw),
		cueschema.WithFilename(opts.Path),
		cueschema.WithDefinition(opts.Definition),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func loadOpenAPI(ctx context.Context, raw []byte, ext string, opts SchemaOptions) (form.Resolver, error) {
	var (
		r   *openapischema.Resolver
		err error
	)
	switch {
	case opts.Component != "":
		r, err = openapischema.FromDocument(ctx, raw, opts.Component)
	case ext == ".json":
		r, err = openapischema.FromJSON(raw)
	default:
		r, err = openapischema.FromYAML(raw)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func loadValues(path string) (form.Values, error) {
	if path == "" {
		return form.Values{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	values, err := form.LoadDefaults(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}
