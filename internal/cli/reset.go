package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/cli/runner"
)

func resetCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase settings and check-in history",
	}
	cmd.Flags().Bool("yes", false, "confirm the reset")
	cmd.RunE = e.runners.Base().Wrap(func(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
		flags := runner.Flags(cmd)
		confirmed := flags.Bool("yes")
		if err := flags.Err(); err != nil {
			return err
		}
		if !confirmed {
			return errors.New("this erases all data; re-run with --yes to confirm")
		}

		ctl, err := ctx.Controller(runner.CommandCtx(cmd))
		if err != nil {
			return err
		}
		if _, err := ctl.Reset(runner.CommandCtx(cmd)); err != nil {
			return err
		}
		printSuccess(ctx.Out, "All data erased")
		return nil
	})
	return cmd
}

func simulateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:    "simulate-inactivity",
		Short:  "Backdate the log so the next evaluation breaches",
		Hidden: true,
		RunE: e.runners.SetUp().Wrap(func(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
			ctl, err := ctx.Controller(runner.CommandCtx(cmd))
			if err != nil {
				return err
			}
			ctl.SimulateInactivity(runner.CommandCtx(cmd))
			snap := ctl.Evaluate(runner.CommandCtx(cmd))
			printWarning(ctx.Out, "Simulated inactivity: %s", snap.Countdown)
			return nil
		}),
	}
}
