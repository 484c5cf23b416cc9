package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/dynabaml/types"
)

func TestCLICompilerMissingBinary(t *testing.T) {
	c := &CLICompiler{Bin: "definitely-not-a-real-binary-xyz"}
	err := c.Generate(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, types.ErrBAMLCompilation, types.GetErrorCode(err))
}

func TestCLICompilerFailureCarriesDiagnostics(t *testing.T) {
	// "false" exits nonzero without output; the diagnostic envelope is
	// still attached.
	c := &CLICompiler{Bin: "false"}
	err := c.Generate(context.Background(), t.TempDir())
	require.Error(t, err)

	e := types.AsError(err)
	assert.Equal(t, types.ErrBAMLCompilation, e.Code)
	assert.Contains(t, e.Diagnostic, "STDOUT:")
	assert.Contains(t, e.Diagnostic, "STDERR:")
}

func TestCLICompilerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// "yes generate" runs until killed, which exercises the deadline path.
	err := (&CLICompiler{Bin: "yes"}).Generate(ctx, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, types.ErrTimeout, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

func TestNopCompiler(t *testing.T) {
	assert.NoError(t, NopCompiler{}.Generate(context.Background(), t.TempDir()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NopCompiler{}.Generate(ctx, t.TempDir()))
}
