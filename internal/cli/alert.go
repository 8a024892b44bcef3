package cli

import (
	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/cli/runner"
)

func alertCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "alert",
		Short: "Send the emergency SMS to your contact",
		Long: `Hands a pre-filled SMS to the device's messaging app (or prints the sms:
link with --open-sms=false). The message is not sent automatically; the
alert is recorded as soon as the handoff happens.`,
		RunE: e.runners.SetUp().Wrap(func(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
			ctl, err := ctx.Controller(runner.CommandCtx(cmd))
			if err != nil {
				return err
			}
			st, err := ctl.Dispatch(runner.CommandCtx(cmd))
			if err != nil {
				return err
			}
			printSuccess(ctx.Out, "Alert handed off for %s (%s)", st.Settings.ContactName, st.Settings.ContactPhone)
			return nil
		}),
	}
}
