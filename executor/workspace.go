package executor

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/dynabaml/types"
)

// srcDir is the schema source directory expected by the external compiler.
const srcDir = "baml_src"

// Workspace is an invocation-scoped filesystem location for compilation
// artifacts. Names are unique per invocation so concurrent runs never
// collide. Callers defer Close immediately after acquisition; removal is
// unconditional and removal failures are logged, never raised, to avoid
// masking the primary error.
type Workspace struct {
	dir    string
	logger *zap.Logger
}

// NewWorkspace creates a uniquely-named workspace under the system temp
// directory with the schema source subdirectory in place.
func NewWorkspace(logger *zap.Logger) (*Workspace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Join(os.TempDir(), "dynabaml-"+uuid.NewString())
	if err := os.MkdirAll(filepath.Join(dir, srcDir), 0o755); err != nil {
		return nil, types.NewError(types.ErrUnknown, "creating ephemeral workspace failed").WithCause(err)
	}
	return &Workspace{dir: dir, logger: logger}, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string { return w.dir }

// WriteSource writes a schema source file into the baml_src directory.
func (w *Workspace) WriteSource(name, content string) error {
	path := filepath.Join(w.dir, srcDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return types.NewError(types.ErrUnknown, "writing workspace file "+name+" failed").WithCause(err)
	}
	return nil
}

// Close removes the workspace. Safe to call multiple times.
func (w *Workspace) Close() {
	if w.dir == "" {
		return
	}
	if err := os.RemoveAll(w.dir); err != nil {
		w.logger.Warn("workspace cleanup failed",
			zap.String("dir", w.dir),
			zap.Error(err))
		return
	}
	w.dir = ""
}
