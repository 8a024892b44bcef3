package runner

import (
	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/config"
)

// OptionsProvider returns the resolved runtime options and any load error.
type OptionsProvider func() (*config.Options, error)

// CommandRunner chains interceptors for CLI command execution.
type CommandRunner struct {
	interceptors []Interceptor
	provider     OptionsProvider
}

// NewRunner creates a new CommandRunner with the given options provider.
func NewRunner(provider OptionsProvider) *CommandRunner {
	return &CommandRunner{provider: provider}
}

// Use adds interceptors to the chain. Returns self for chaining.
func (r *CommandRunner) Use(interceptors ...Interceptor) *CommandRunner {
	r.interceptors = append(r.interceptors, interceptors...)
	return r
}

// CommandFunc is the signature for command handler functions.
type CommandFunc func(ctx *CommandContext, cmd *cobra.Command, args []string) error

// Wrap creates a cobra.RunE function with the interceptor chain applied.
func (r *CommandRunner) Wrap(fn CommandFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts, optsErr := r.provider()
		ctx := NewContext(opts, optsErr, cmd.OutOrStdout())

		chain := func() error { return fn(ctx, cmd, args) }

		// Wrap in reverse order so first interceptor runs first
		for i := len(r.interceptors) - 1; i >= 0; i-- {
			interceptor := r.interceptors[i]
			next := chain
			chain = func() error { return interceptor(ctx, cmd, args, next) }
		}

		return chain()
	}
}

// Builder helps construct runners with common interceptor patterns.
type Builder struct {
	provider OptionsProvider
}

// NewBuilder creates a new runner builder with the given options provider.
func NewBuilder(provider OptionsProvider) *Builder {
	return &Builder{provider: provider}
}

// Base creates a runner that only needs options.
func (b *Builder) Base() *CommandRunner {
	return NewRunner(b.provider).Use(
		WithLogging(),
		RequireOptions(),
		CloseStore(),
	)
}

// SetUp creates a runner that requires completed setup.
func (b *Builder) SetUp() *CommandRunner {
	return NewRunner(b.provider).Use(
		WithLogging(),
		RequireOptions(),
		CloseStore(),
		RequireSetup(),
	)
}
