package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/alert"
	"github.com/didyoueat/didyoueat/internal/app"
	"github.com/didyoueat/didyoueat/internal/config"
	"github.com/didyoueat/didyoueat/internal/state"
)

// CommandContext provides shared dependencies to command handlers.
// The store and controller are opened lazily on first access.
type CommandContext struct {
	// Options are the resolved runtime options (nil if loading failed)
	Options *config.Options

	// OptionsErr is the error from resolving options, if any
	OptionsErr error

	// Out receives user-facing output
	Out io.Writer

	store   state.Store
	ctl     *app.Controller
	ctlErr  error
	ctlOnce sync.Once
}

// NewContext creates a CommandContext.
func NewContext(opts *config.Options, optsErr error, out io.Writer) *CommandContext {
	return &CommandContext{
		Options:    opts,
		OptionsErr: optsErr,
		Out:        out,
	}
}

// Dispatcher returns the alert dispatcher selected by the options: the OS
// SMS handler when open-sms is set, otherwise printed to Out.
func (c *CommandContext) Dispatcher() alert.Dispatcher {
	if c.Options != nil && c.Options.OpenSMS {
		return alert.NewLaunchDispatcher(nil)
	}
	return alert.NewPrintDispatcher(c.Out)
}

// Controller opens the store and returns the controller.
func (c *CommandContext) Controller(ctx context.Context) (*app.Controller, error) {
	c.ctlOnce.Do(func() {
		if c.Options == nil {
			c.ctlErr = ErrNotConfigured
			return
		}
		store, err := state.Open(c.Options.StoreOptions())
		if err != nil {
			c.ctlErr = fmt.Errorf("failed to open store: %w", err)
			return
		}
		c.store = store
		c.ctl = app.New(ctx, app.Options{
			Store:      store,
			Dispatcher: c.Dispatcher(),
			Monitor:    c.Options.Monitor(),
		})
	})
	return c.ctl, c.ctlErr
}

// CommandCtx returns the command's context, or Background when the command
// was not started through ExecuteContext.
func CommandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Close releases the store if it was opened.
func (c *CommandContext) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
