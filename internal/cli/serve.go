package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/didyoueat/didyoueat/internal/api"
	"github.com/didyoueat/didyoueat/internal/cli/runner"
	"github.com/didyoueat/didyoueat/internal/config"
	"github.com/didyoueat/didyoueat/internal/logging"
	"github.com/didyoueat/didyoueat/internal/poller"
	"github.com/didyoueat/didyoueat/internal/server"
)

func serveCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API with the inactivity monitor",
		Long: `Start the HTTP API and evaluate inactivity in the background.

Endpoints:
  GET  /health                      Health check
  GET  /api/status                  Countdown and alert state
  GET  /api/history                 Check-in log (?limit=N)
  POST /api/checkin                 Record a check-in
  GET  /action?checkin=yes|not_yet  Notification action entry point
  POST /api/alert                   Hand off the emergency SMS
  GET  /api/settings                Current settings
  PUT  /api/settings                Complete setup or update settings`,
		Example: `  didyoueat serve
  didyoueat serve --listen 127.0.0.1:9000`,
	}
	f := cmd.Flags()
	f.String(config.KeyListen, config.DefaultListen, "listen address")
	f.Duration(config.KeyPollInterval, config.DefaultPollInterval, "evaluation interval")
	f.Float64(config.KeyRateLimit, config.DefaultRateLimit, "requests per second per client")
	f.Bool("dispatch", false, "hand off the SMS automatically when the alert is raised")
	cmd.RunE = e.runners.Base().Wrap(runServe)
	return cmd
}

func runServe(ctx *runner.CommandContext, cmd *cobra.Command, args []string) error {
	flags := runner.Flags(cmd)
	autoDispatch := flags.Bool("dispatch")
	if err := flags.Err(); err != nil {
		return err
	}

	bg := runner.CommandCtx(cmd)
	ctl, err := ctx.Controller(bg)
	if err != nil {
		return err
	}

	srv := api.NewServer(ctl, api.Options{Addr: ctx.Options.Listen, RateLimit: ctx.Options.RateLimit})
	reminders := newReminderHook(ctl, printReminder(ctx.Out))
	p := poller.New(ctx.Options.PollInterval, ctl.Evaluate, poller.ChainCallbacks(
		&poller.Callbacks{OnTick: reminders.onTick},
		alertCallbacks(bg, ctl, ctx.Out, autoDispatch),
	))

	logging.Info("didyoueat server starting",
		logging.String("listen", ctx.Options.Listen),
		logging.String("store", ctx.Options.Store),
		logging.Duration("poll", p.Interval()))

	p.Start(bg)
	defer p.Stop()
	return server.Run(bg, srv.HTTPServer(), server.Options{
		BeforeStop: p.Stop,
		AfterStop:  srv.Close,
		Ready: func(addr net.Addr) {
			printInfo(ctx.Out, "API: http://%s", addr)
			printInfo(ctx.Out, "Press Ctrl+C to stop")
			if !ctl.State().Settings.IsSetupComplete {
				printWarning(ctx.Out, "Setup not complete - PUT /api/settings or run 'didyoueat setup'")
			}
		},
	})
}
