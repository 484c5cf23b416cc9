// Package dynabaml extracts structured, schema-conforming data from free
// text through an LLM. Callers describe the desired output shape as a plain
// nested mapping; the library compiles it into a BAML schema, drives the
// selected provider, and validates the response against the schema.
//
// Usage:
//
//	data, err := dynabaml.CallWithSchema(ctx,
//	    "John Doe is 30 years old",
//	    map[string]any{"name": "string", "age": "int"},
//	    &dynabaml.ProviderOptions{Provider: "openai"})
//
// The safe variant never returns an error:
//
//	res := dynabaml.CallWithSchemaSafe(ctx, prompt, schema, opts)
//	if !res.Success { log.Println(res.ErrorType, res.Error) }
//
// This package is a thin wrapper over executor, schema and providers; use
// those directly for custom pipelines.
package dynabaml

import (
	"context"

	"github.com/BaSui01/dynabaml/config"
	"github.com/BaSui01/dynabaml/executor"
	"github.com/BaSui01/dynabaml/providers"
	"github.com/BaSui01/dynabaml/schema"
	"github.com/BaSui01/dynabaml/types"
)

// Re-exported contracts so simple callers never import subpackages.
type (
	ProviderOptions = types.ProviderOptions
	CallResult      = types.CallResult
	Error           = types.Error
	ErrorCode       = types.ErrorCode
)

// CallWithSchema executes one extraction. A nil opts uses the defaults
// (local Ollama). Failures are typed *types.Error values.
func CallWithSchema(ctx context.Context, promptText string, schemaDict map[string]any, opts *ProviderOptions) (map[string]any, error) {
	return executor.New().Run(ctx, promptText, schemaDict, resolveOptions(opts))
}

// CallWithSchemaSafe is the non-throwing counterpart: it always returns an
// envelope and never propagates an error or panic.
func CallWithSchemaSafe(ctx context.Context, promptText string, schemaDict map[string]any, opts *ProviderOptions) CallResult {
	return executor.New().RunSafe(ctx, promptText, schemaDict, resolveOptions(opts))
}

// GenerateSchema compiles a schema description into BAML source text
// without running the pipeline.
func GenerateSchema(schemaDict map[string]any, schemaName string) (string, error) {
	cs, err := schema.NewGenerator().Generate(schemaDict, schemaName)
	if err != nil {
		return "", err
	}
	return cs.Code, nil
}

// NewPipeline builds a customized pipeline (mock compilers, custom
// factories, metrics).
func NewPipeline(opts ...executor.Option) *executor.Pipeline {
	return executor.New(opts...)
}

// NewProviderFactory returns the provider factory over the built-in
// registry.
func NewProviderFactory() *providers.Factory {
	return providers.NewFactory(nil)
}

func resolveOptions(opts *ProviderOptions) ProviderOptions {
	if opts == nil {
		return config.Defaults()
	}
	return *opts
}
