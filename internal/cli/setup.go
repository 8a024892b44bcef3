package cli

import (
	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/cli/runner"
	"github.com/didyoueat/didyoueat/internal/state"
)

func addSettingsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "emergency contact name")
	f.String("phone", "", "emergency contact phone, with +country code")
	f.String("breakfast", "", "breakfast reminder time (HH:MM)")
	f.String("lunch", "", "lunch reminder time (HH:MM)")
	f.String("dinner", "", "dinner reminder time (HH:MM)")
}

// settingsFromFlags overlays explicitly set flags onto base.
func settingsFromFlags(cmd *cobra.Command, base state.Settings) (state.Settings, error) {
	flags := runner.Flags(cmd)
	out := base
	for flag, field := range map[string]*string{
		"name":      &out.ContactName,
		"phone":     &out.ContactPhone,
		"breakfast": &out.BreakfastTime,
		"lunch":     &out.LunchTime,
		"dinner":    &out.DinnerTime,
	} {
		if flags.Changed(flag) {
			*field = flags.String(flag)
		}
	}
	return out, flags.Err()
}

func setupCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set the emergency contact and meal times",
		Long: `Record who to contact when no meal is confirmed, and when to be reminded.
The phone number must include the international prefix, e.g. +15551234567.`,
		Example: `  didyoueat setup --name "Mary" --phone +15551234567
  didyoueat setup --name "Mary" --phone +15551234567 --dinner 18:30`,
	}
	addSettingsFlags(cmd)
	cmd.RunE = e.runners.Base().Wrap(runSetup)
	return cmd
}

func runSetup(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	ctl, err := ctx.Controller(runner.CommandCtx(cmd))
	if err != nil {
		return err
	}
	settings, err := settingsFromFlags(cmd, ctl.State().Settings)
	if err != nil {
		return err
	}
	st, err := ctl.CompleteSetup(runner.CommandCtx(cmd), settings)
	if err != nil {
		return err
	}

	printSuccess(ctx.Out, "Setup complete")
	printSettings(ctx, st.Settings)
	printInfo(ctx.Out, "")
	printInfo(ctx.Out, "Check in after a meal with: didyoueat checkin")
	return nil
}

func printSettings(ctx *runner.CommandContext, s state.Settings) {
	contact := "(not set)"
	if s.ContactName != "" {
		contact = s.ContactName + " (" + s.ContactPhone + ")"
	}
	printInfo(ctx.Out, "Contact:    %s", contact)
	printInfo(ctx.Out, "Breakfast:  %s", s.BreakfastTime)
	printInfo(ctx.Out, "Lunch:      %s", s.LunchTime)
	printInfo(ctx.Out, "Dinner:     %s", s.DinnerTime)
}

func settingsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: e.runners.Base().Wrap(func(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
			ctl, err := ctx.Controller(runner.CommandCtx(cmd))
			if err != nil {
				return err
			}
			s := ctl.State().Settings
			printHeader(ctx.Out, "Settings")
			printSettings(ctx, s)
			if !s.IsSetupComplete {
				printWarning(ctx.Out, "Setup not complete - run 'didyoueat setup'")
			}
			return nil
		}),
	}

	set := &cobra.Command{
		Use:     "set",
		Short:   "Change contact or meal times",
		Example: `  didyoueat settings set --lunch 13:00`,
		RunE: e.runners.SetUp().Wrap(func(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
			ctl, err := ctx.Controller(runner.CommandCtx(cmd))
			if err != nil {
				return err
			}
			settings, err := settingsFromFlags(cmd, ctl.State().Settings)
			if err != nil {
				return err
			}
			st, err := ctl.UpdateSettings(runner.CommandCtx(cmd), settings)
			if err != nil {
				return err
			}
			printSuccess(ctx.Out, "Settings saved")
			printSettings(ctx, st.Settings)
			return nil
		}),
	}
	addSettingsFlags(set)

	cmd.AddCommand(show, set)
	return cmd
}
