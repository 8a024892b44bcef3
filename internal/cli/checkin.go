package cli

import (
	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/cli/runner"
)

func checkinCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin [yes|not_yet]",
		Short: "Record a meal check-in",
		Long: `Record whether you have eaten. "yes" (the default) resets the inactivity
window; "not_yet" is logged but does not.

The category defaults from the time of day: Breakfast before 11:00, Lunch
before 16:00, Dinner before 22:00, Extra after.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  didyoueat checkin
  didyoueat checkin not_yet --category lunch`,
	}
	cmd.Flags().StringP("category", "c", "", "breakfast, lunch, dinner or extra")
	cmd.RunE = e.runners.SetUp().Wrap(runCheckin)
	return cmd
}

func runCheckin(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	outcome := checkin.Confirmed
	if len(args) == 1 {
		var err error
		if outcome, err = checkin.ParseOutcome(args[0]); err != nil {
			return err
		}
	}

	ctl, err := ctx.Controller(runner.CommandCtx(cmd))
	if err != nil {
		return err
	}

	flags := runner.Flags(cmd)
	raw := flags.String("category")
	if err := flags.Err(); err != nil {
		return err
	}
	category := checkin.CategoryForHour(ctl.Now().Hour())
	if raw != "" {
		if category, err = checkin.ParseCategory(raw); err != nil {
			return err
		}
	}

	_, ev := ctl.CheckIn(runner.CommandCtx(cmd), category, outcome)
	printCheckin(ctx, ev)
	snap := ctl.Evaluate(runner.CommandCtx(cmd))
	printInfo(ctx.Out, "Time until alert: %s", snap.Countdown)
	return nil
}

func printCheckin(ctx *runner.CommandContext, ev checkin.Event) {
	if ev.Outcome.IsConfirmed() {
		printSuccess(ctx.Out, "%s confirmed", ev.Category)
		return
	}
	printInfo(ctx.Out, "Noted: %s not yet", ev.Category)
}

func actionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "action <yes|not_yet>",
		Short: "Handle a notification button press",
		Long: `Entry point for notification actions. Records an Extra check-in with the
given answer; each invocation appends one event.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runners.SetUp().Wrap(func(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
			ctl, err := ctx.Controller(runner.CommandCtx(cmd))
			if err != nil {
				return err
			}
			_, ev, err := ctl.HandleAction(runner.CommandCtx(cmd), args[0])
			if err != nil {
				return err
			}
			printCheckin(ctx, ev)
			return nil
		}),
	}
}
