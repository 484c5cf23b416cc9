package dynabaml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/executor"
	"github.com/BaSui01/dynabaml/llm"
	"github.com/BaSui01/dynabaml/providers"
	"github.com/BaSui01/dynabaml/types"
)

func TestGenerateSchema(t *testing.T) {
	code, err := GenerateSchema(map[string]any{"name": "string", "age": "int"}, "Person")
	require.NoError(t, err)
	assert.Equal(t, "class Person {\n  age int\n  name string\n}\n", code)

	_, err = GenerateSchema(map[string]any{}, "Empty")
	require.Error(t, err)
	assert.Equal(t, types.ErrSchemaGeneration, types.GetErrorCode(err))
}

func TestCallWithSchemaFailsFast(t *testing.T) {
	// generation and configuration failures surface before any external
	// runtime or backend is touched
	_, err := CallWithSchema(context.Background(), "text", map[string]any{}, nil)
	require.Error(t, err)
	assert.Equal(t, types.ErrSchemaGeneration, types.GetErrorCode(err))

	_, err = CallWithSchema(context.Background(), "text",
		map[string]any{"v": "string"},
		&ProviderOptions{Provider: "no-such-backend"})
	require.Error(t, err)
	assert.Equal(t, types.ErrConfiguration, types.GetErrorCode(err))
}

func TestCallWithSchemaSafeEnvelope(t *testing.T) {
	res := CallWithSchemaSafe(context.Background(), "text", map[string]any{}, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "schema_generation", res.ErrorType)
	assert.NotEmpty(t, res.Error)
}

type cannedProvider struct{ content string }

func (c cannedProvider) Name() string { return "ollama" }
func (c cannedProvider) Invoke(ctx context.Context, req *llm.Request) (*llm.RawResult, error) {
	return &llm.RawResult{Content: c.content, Provider: c.Name()}, nil
}
func (c cannedProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return &llm.HealthStatus{Healthy: true}, nil
}

func TestNewPipelineWithCustomWiring(t *testing.T) {
	reg := providers.NewRegistry(map[types.ProviderID]providers.BuilderFunc{
		types.ProviderOllama: func(opts types.ProviderOptions, logger *zap.Logger) (llm.Provider, error) {
			return cannedProvider{content: `{"name": "Ada"}`}, nil
		},
	})
	p := NewPipeline(
		executor.WithFactory(providers.NewFactoryWith(reg, nil)),
		executor.WithCompiler(executor.NopCompiler{}),
	)

	data, err := p.Run(context.Background(), "Ada wrote programs",
		map[string]any{"name": "string"},
		ProviderOptions{Provider: types.ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, "Ada", data["name"])
}

func TestNewProviderFactory(t *testing.T) {
	f := NewProviderFactory()
	assert.Equal(t, []string{"anthropic", "ollama", "openai", "openrouter"}, f.AvailableProviders())
}
