// Package providers exposes the provider factory: a uniform way to turn
// ProviderOptions into a configured backend adapter, with retry wrapping
// and credential resolution.
package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/dynabaml/llm"
	"github.com/BaSui01/dynabaml/types"
)

// Factory creates provider adapters from validated options. The factory
// holds only an immutable registry and a logger, so a single instance is
// safe for concurrent use.
type Factory struct {
	registry *Registry
	logger   *zap.Logger
}

// NewFactory creates a factory over the built-in registry.
func NewFactory(logger *zap.Logger) *Factory {
	return NewFactoryWith(DefaultRegistry(), logger)
}

// NewFactoryWith creates a factory over an explicit registry.
func NewFactoryWith(registry *Registry, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{registry: registry, logger: logger}
}

// CreateProvider validates opts, resolves credentials, builds the adapter
// and wraps it with retry logic when retry_count is set. Unknown providers
// and missing credentials surface as CONFIGURATION errors.
func (f *Factory) CreateProvider(opts types.ProviderOptions) (llm.Provider, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	build, ok := f.registry.Lookup(opts.Provider)
	if !ok {
		return nil, types.NewError(types.ErrConfiguration,
			fmt.Sprintf("unknown provider type: %s", opts.Provider)).
			WithFragment(string(opts.Provider))
	}

	p, err := build(opts, f.logger)
	if err != nil {
		return nil, err
	}

	if opts.RetryCount > 0 {
		cfg := llm.DefaultRetryConfig()
		cfg.MaxRetries = opts.RetryCount
		p = llm.NewRetryableProvider(p, cfg, f.logger)
	}
	return p, nil
}

// AvailableProviders returns the sorted identifiers of registered backends.
// This reflects registration, not live connectivity; use ProbeAvailable for
// the latter.
func (f *Factory) AvailableProviders() []string {
	return f.registry.IDs()
}

// ProbeAvailable health-checks every registered backend concurrently and
// returns the sorted identifiers of those that respond. Backends whose
// credentials cannot be resolved are skipped.
func (f *Factory) ProbeAvailable(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		mu        sync.Mutex
		available []string
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range f.registry.IDs() {
		id := id
		g.Go(func() error {
			p, err := f.CreateProvider(types.ProviderOptions{Provider: types.ProviderID(id)})
			if err != nil {
				return nil
			}
			status, err := p.HealthCheck(ctx)
			if err != nil || !status.Healthy {
				return nil
			}
			mu.Lock()
			available = append(available, id)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(available)
	return available
}
