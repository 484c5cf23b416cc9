// Package executor orchestrates one extraction run end to end: schema
// compilation, ephemeral workspace materialization, external runtime
// invocation through the selected provider, response validation, and
// unconditional workspace teardown.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/llm"
	"github.com/BaSui01/dynabaml/logging"
	"github.com/BaSui01/dynabaml/providers"
	"github.com/BaSui01/dynabaml/schema"
	"github.com/BaSui01/dynabaml/types"
)

// Pipeline runs extractions. A Pipeline is immutable after construction and
// safe for concurrent use; all per-run state is invocation-local.
type Pipeline struct {
	generator *schema.Generator
	factory   *providers.Factory
	compiler  Compiler
	metrics   *Metrics
	logger    *zap.Logger
}

// Option configures the pipeline at construction.
type Option func(*Pipeline)

// WithFactory replaces the provider factory.
func WithFactory(f *providers.Factory) Option {
	return func(p *Pipeline) { p.factory = f }
}

// WithCompiler replaces the external compiler.
func WithCompiler(c Compiler) Option {
	return func(p *Pipeline) { p.compiler = c }
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the base logger used when options carry no log level.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline with the built-in factory and CLI compiler.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		generator: schema.NewGenerator(),
		compiler:  &CLICompiler{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.factory == nil {
		p.factory = providers.NewFactory(p.logger)
	}
	return p
}

// Run executes one extraction and returns the validated result. Typed
// errors follow the taxonomy in types; the workspace is released on every
// exit path including cancellation.
func (p *Pipeline) Run(ctx context.Context, prompt string, schemaDict map[string]any, opts types.ProviderOptions) (map[string]any, error) {
	data, err := p.run(ctx, prompt, schemaDict, opts)
	outcome := "success"
	if err != nil {
		outcome = types.GetErrorCode(err).WireName()
	}
	p.metrics.RecordRun(string(opts.Provider), outcome)
	return data, err
}

// RunSafe is the non-throwing counterpart: every failure, including panics
// from foreign code, is captured into the result envelope.
func (p *Pipeline) RunSafe(ctx context.Context, prompt string, schemaDict map[string]any, opts types.ProviderOptions) (result types.CallResult) {
	defer func() {
		if r := recover(); r != nil {
			result = types.CallResult{
				Success:   false,
				Error:     fmt.Sprintf("panic: %v", r),
				ErrorType: types.ErrUnknown.WireName(),
			}
		}
	}()

	data, err := p.Run(ctx, prompt, schemaDict, opts)
	if err != nil {
		return types.ResultFromError(err)
	}
	return types.ResultFromData(data)
}

func (p *Pipeline) run(ctx context.Context, prompt string, schemaDict map[string]any, opts types.ProviderOptions) (map[string]any, error) {
	logger := p.runLogger(opts)

	// Unique names per invocation keep concurrent runs and their generated
	// artifacts independent.
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	schemaName := "DynamicSchema" + suffix
	functionName := "Extract" + schemaName

	start := time.Now()
	cs, err := p.generator.Generate(schemaDict, schemaName)
	p.observe(logger, "generate_schema", start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	provider, err := p.factory.CreateProvider(opts)
	p.observe(logger, "create_provider", start, err)
	if err != nil {
		return nil, err
	}

	ws, err := NewWorkspace(logger)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	if err := p.materialize(ws, cs, functionName, prompt, opts); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start = time.Now()
	err = p.compiler.Generate(ctx, ws.Dir())
	p.observe(logger, "compile", start, err)
	if err != nil {
		return nil, p.withTimeoutDetail(err, opts)
	}

	start = time.Now()
	raw, err := provider.Invoke(ctx, &llm.Request{
		Prompt:       prompt,
		OutputFormat: renderOutputFormat(cs),
		Model:        opts.Model,
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
	})
	p.observe(logger, "invoke", start, err)
	if err != nil {
		return nil, p.withTimeoutDetail(err, opts)
	}

	start = time.Now()
	data, err := ParseResponse(raw.Content, cs)
	p.observe(logger, "parse", start, err)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// materialize writes the compiled schema, client configuration and
// generator block into the workspace.
func (p *Pipeline) materialize(ws *Workspace, cs *schema.CompiledSchema, functionName, prompt string, opts types.ProviderOptions) error {
	code := cs.Code + "\n" + renderFunction(functionName, cs.RootName, clientName(opts.Provider), prompt)
	if err := ws.WriteSource("schema.baml", code); err != nil {
		return err
	}
	if err := ws.WriteSource("clients.baml", renderClients(opts)); err != nil {
		return err
	}
	return ws.WriteSource("generators.baml", renderGenerators())
}

// runLogger builds the per-run logger from the options, falling back to the
// pipeline's base logger when no level is set.
func (p *Pipeline) runLogger(opts types.ProviderOptions) *zap.Logger {
	if opts.LogLevel == "" || opts.LogLevel == types.LogOff {
		return p.logger
	}
	return logging.New(opts.LogLevel, opts.LogPath)
}

// observe logs one step's duration and outcome and feeds the histogram.
// Logging must never fail the pipeline; zap write errors are swallowed by
// the sink.
func (p *Pipeline) observe(logger *zap.Logger, step string, start time.Time, err error) {
	elapsed := time.Since(start)
	p.metrics.ObserveStep(step, elapsed)
	if err != nil {
		logger.Warn("pipeline step failed",
			zap.String("step", step),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	logger.Info("pipeline step finished",
		zap.String("step", step),
		zap.Duration("elapsed", elapsed))
}

// withTimeoutDetail stamps the configured timeout onto TIMEOUT errors that
// could not know it.
func (p *Pipeline) withTimeoutDetail(err error, opts types.ProviderOptions) error {
	e := types.AsError(err)
	if e.Code == types.ErrTimeout && e.ConfiguredTimeout == 0 {
		e.ConfiguredTimeout = opts.Timeout
	}
	return e
}
