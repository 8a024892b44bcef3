package runner

import (
	"github.com/spf13/cobra"

	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/logging"
)

// Interceptor is a function that wraps command execution.
type Interceptor func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error

// RequireOptions ensures runtime options resolved before executing the command.
func RequireOptions() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		if ctx.OptionsErr != nil {
			return ctx.OptionsErr
		}
		if ctx.Options == nil {
			return ErrNotConfigured
		}
		return next()
	}
}

// RequireSetup ensures the user has completed setup.
// Implicitly requires options to be loaded.
func RequireSetup() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		if ctx.OptionsErr != nil {
			return ctx.OptionsErr
		}
		ctl, err := ctx.Controller(CommandCtx(cmd))
		if err != nil {
			return err
		}
		if !ctl.State().Settings.IsSetupComplete {
			return apperrors.ErrSetupIncomplete
		}
		return next()
	}
}

// CloseStore closes the store once the command finishes.
func CloseStore() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		err := next()
		if cerr := ctx.Close(); cerr != nil {
			logging.Warn("Failed to close store", logging.Err(cerr))
		}
		return err
	}
}

// WithLogging logs command execution.
func WithLogging() Interceptor {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string, next func() error) error {
		logging.Debug("CLI command", logging.String("cmd", cmd.CommandPath()))
		err := next()
		if err != nil {
			logging.Debug("CLI error", logging.String("cmd", cmd.CommandPath()), logging.Err(err))
		}
		return err
	}
}
