package cli

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/api"
	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/cli/runner"
)

func historyCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent check-ins, newest first",
	}
	cmd.Flags().IntP("limit", "n", 20, "maximum entries to show (0 for all)")
	cmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")
	cmd.RunE = e.runners.Base().Wrap(runHistory)
	return cmd
}

func runHistory(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	limit := flags.Int("limit")
	format := flags.String("output")
	if err := flags.Err(); err != nil {
		return err
	}

	ctl, err := ctx.Controller(runner.CommandCtx(cmd))
	if err != nil {
		return err
	}
	logs := ctl.State().Logs
	if limit > 0 && limit < len(logs) {
		logs = logs[:limit]
	}

	if done, err := render(ctx.Out, format, api.ToEventDTOs(logs)); done {
		return err
	}
	if len(logs) == 0 {
		printInfo(ctx.Out, "No check-ins yet.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(ctx.Out)
	tw.AppendHeader(table.Row{"When", "Meal", "Answer"})
	for _, ev := range logs {
		answer := "Yes"
		if ev.Outcome == checkin.Deferred {
			answer = "Not yet"
		}
		tw.AppendRow(table.Row{time.UnixMilli(ev.Timestamp).Format("Mon Jan 2 15:04"), ev.Category, answer})
	}
	tw.Render()
	return nil
}
