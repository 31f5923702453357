package pipeline

import (
	"context"

	"github.com/electwix/libcamera-cgen/internal/catalog"
)

// Hooks provides extension points in the pipeline execution.
// Each hook is called at a specific stage and can abort the run by returning
// an error.
type Hooks struct {
	// BeforeLoad is called with the resolved catalog sources.
	BeforeLoad func(ctx context.Context, sources catalog.Sources) error

	// AfterLoad is called once the catalog loaded and validated.
	AfterLoad func(ctx context.Context, provider catalog.Provider) error

	// AfterGenerate is called with the rendered outputs.
	AfterGenerate func(ctx context.Context, files []File) error

	// BeforeWrite is called before any output is written. It is skipped in
	// dry-run and check mode.
	BeforeWrite func(ctx context.Context, files []File) error

	// AfterWrite is the final hook, called even if earlier stages failed.
	AfterWrite func(ctx context.Context, summary Summary) error
}

// Chain combines two Hooks, calling h's hooks first, then other's hooks.
// If a hook in h returns an error, other's hook is not called.
func (h Hooks) Chain(other Hooks) Hooks {
	return Hooks{
		BeforeLoad:    chainHook(h.BeforeLoad, other.BeforeLoad),
		AfterLoad:     chainHook(h.AfterLoad, other.AfterLoad),
		AfterGenerate: chainHook(h.AfterGenerate, other.AfterGenerate),
		BeforeWrite:   chainHook(h.BeforeWrite, other.BeforeWrite),
		AfterWrite:    chainHook(h.AfterWrite, other.AfterWrite),
	}
}

func chainHook[T any](first, second func(context.Context, T) error) func(context.Context, T) error {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, arg T) error {
		if err := first(ctx, arg); err != nil {
			return err
		}
		return second(ctx, arg)
	}
}

func runHook[T any](ctx context.Context, hook func(context.Context, T) error, arg T) error {
	if hook == nil {
		return nil
	}
	return hook(ctx, arg)
}
