package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/BaSui01/dynabaml/types"
)

// Compiler drives the external schema compiler/runtime over a materialized
// workspace. Implementations must honor ctx cancellation and deadline.
type Compiler interface {
	Generate(ctx context.Context, projectDir string) error
}

// CLICompiler invokes the baml-cli binary.
type CLICompiler struct {
	// Bin overrides the binary name, default "baml-cli".
	Bin string
}

// Compile-time interface check.
var _ Compiler = (*CLICompiler)(nil)

// Generate runs "baml-cli generate" in projectDir. Compiler diagnostics are
// preserved on the returned error; a context deadline surfaces as TIMEOUT
// rather than a compilation failure.
func (c *CLICompiler) Generate(ctx context.Context, projectDir string) error {
	bin := c.Bin
	if bin == "" {
		bin = "baml-cli"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "generate")
	cmd.Dir = projectDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return types.NewError(types.ErrTimeout, "schema compilation timed out").
			WithTiming(time.Since(start), 0).
			WithRetryable(true).
			WithCause(ctxErr)
	}

	return types.NewError(types.ErrBAMLCompilation, "schema compilation failed").
		WithDiagnostic("STDOUT: " + stdout.String() + "\nSTDERR: " + stderr.String()).
		WithCause(err)
}

// NopCompiler skips external compilation. It backs configurations where the
// compiled schema is validated by the provider round-trip alone.
type NopCompiler struct{}

var _ Compiler = (*NopCompiler)(nil)

func (NopCompiler) Generate(ctx context.Context, projectDir string) error { return ctx.Err() }
