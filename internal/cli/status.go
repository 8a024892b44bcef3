package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/api"
	"github.com/didyoueat/didyoueat/internal/cli/runner"
	"github.com/didyoueat/didyoueat/internal/monitor"
)

func statusCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the inactivity countdown",
	}
	cmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
	cmd.RunE = e.runners.Base().Wrap(runStatus)
	return cmd
}

func runStatus(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	format := flags.String("output")
	if err := flags.Err(); err != nil {
		return err
	}

	ctl, err := ctx.Controller(runner.CommandCtx(cmd))
	if err != nil {
		return err
	}
	snap := ctl.Evaluate(runner.CommandCtx(cmd))
	st := ctl.State()
	dto := api.ToStatusDTO(snap, st)

	if done, err := render(ctx.Out, format, dto); done {
		return err
	}

	if !dto.SetupComplete {
		printInfo(ctx.Out, "Status: not set up")
		printInfo(ctx.Out, "")
		printInfo(ctx.Out, "To get started:")
		printInfo(ctx.Out, "  didyoueat setup --name <contact> --phone <+number>")
		return nil
	}

	printHeader(ctx.Out, "Did You Eat?")
	if snap.Result.Breached() {
		printWarning(ctx.Out, "%s", monitor.AlertMarker)
		printInfo(ctx.Out, "No confirmed meal within %s.", ctl.Config().Window)
		printInfo(ctx.Out, "Check in with 'didyoueat checkin' or notify %s with 'didyoueat alert'.", st.Settings.ContactName)
	} else {
		printInfo(ctx.Out, "Time until alert: %s", snap.Countdown)
		printInfo(ctx.Out, "Deadline:         %s", dto.Deadline.Local().Format("Mon 15:04"))
	}
	if last, ok := st.Logs.LastConfirmed(); ok {
		printInfo(ctx.Out, "Last confirmed:   %s (%s)", time.UnixMilli(last.Timestamp).Format("Mon Jan 2 15:04"), last.Category)
	} else {
		printInfo(ctx.Out, "Last confirmed:   never")
	}
	if dto.LastAlertAt != nil {
		printInfo(ctx.Out, "Last alert:       %s", dto.LastAlertAt.Local().Format("Mon Jan 2 15:04"))
	}
	printInfo(ctx.Out, "Contact:          %s (%s)", st.Settings.ContactName, st.Settings.ContactPhone)
	return nil
}
