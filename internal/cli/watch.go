package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/app"
	"github.com/didyoueat/didyoueat/internal/cli/runner"
	"github.com/didyoueat/didyoueat/internal/config"
	"github.com/didyoueat/didyoueat/internal/poller"
)

func watchCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live countdown and raise the alert on inactivity",
		Long: `Re-evaluates on a fixed interval until interrupted. Meal reminders are
printed at the configured times.`,
		Example: `  didyoueat watch
  didyoueat watch --poll-interval 1m --dispatch`,
	}
	cmd.Flags().Duration(config.KeyPollInterval, config.DefaultPollInterval, "evaluation interval")
	cmd.Flags().Bool("dispatch", false, "hand off the SMS automatically when the alert is raised")
	cmd.RunE = e.runners.SetUp().Wrap(runWatch)
	return cmd
}

func runWatch(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	autoDispatch := flags.Bool("dispatch")
	if err := flags.Err(); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(runner.CommandCtx(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctl, err := ctx.Controller(sigCtx)
	if err != nil {
		return err
	}

	var last string
	display := &poller.Callbacks{
		OnTick: func(snap app.Snapshot) {
			if snap.Countdown != last {
				last = snap.Countdown
				printInfo(ctx.Out, "Time until alert: %s", snap.Countdown)
			}
		},
	}
	reminders := newReminderHook(ctl, printReminder(ctx.Out))
	p := poller.New(ctx.Options.PollInterval, ctl.Evaluate, poller.ChainCallbacks(
		display,
		&poller.Callbacks{OnTick: reminders.onTick},
		alertCallbacks(sigCtx, ctl, ctx.Out, autoDispatch),
	))

	printInfo(ctx.Out, "Watching (every %s). Press Ctrl+C to stop.", p.Interval())
	p.Start(sigCtx)
	<-sigCtx.Done()
	p.Stop()
	return nil
}

