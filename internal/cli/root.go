// Package cli implements the didyoueat command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/didyoueat/didyoueat/internal/cli/runner"
	"github.com/didyoueat/didyoueat/internal/config"
	"github.com/didyoueat/didyoueat/internal/logging"
	"github.com/didyoueat/didyoueat/internal/monitor"
	"github.com/didyoueat/didyoueat/internal/state"
)

// Version is set at build time
var Version = "0.1.0"

// env carries the resolved options for one invocation.
type env struct {
	v       *viper.Viper
	opts    *config.Options
	optsErr error
	envFile string
	runners *runner.Builder
}

func (e *env) provider() (*config.Options, error) {
	return e.opts, e.optsErr
}

// load resolves options once flags are parsed: .env, then config.yaml, then
// flags and DIDYOUEAT_* env vars through viper.
func (e *env) load() {
	if err := config.LoadDotEnv(e.envFile); err != nil {
		e.optsErr = err
		return
	}
	if err := config.ReadFile(e.v); err != nil {
		e.optsErr = err
		return
	}
	e.opts, e.optsErr = config.Load(e.v)
}

func (e *env) initLogging() {
	cfg := logging.DefaultConfig()
	cfg.Level = e.v.GetString(config.KeyLogLevel)
	cfg.JSON = e.v.GetBool(config.KeyLogJSON)
	if err := logging.Init(cfg); err != nil {
		logging.InitDefault()
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	e := &env{v: config.New()}
	e.runners = runner.NewBuilder(e.provider)

	root := &cobra.Command{
		Use:   "didyoueat",
		Short: "Daily meal check-in with an emergency contact fallback",
		Long: `didyoueat records meal check-ins and watches for inactivity.

If no confirmed check-in arrives within the window (24h by default), it
surfaces an alert and can hand a pre-filled SMS to your emergency contact.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			bindLocalFlags(e.v, cmd)
			e.load()
			e.initLogging()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	addPersistentFlags(root, e)

	root.AddCommand(
		setupCmd(e),
		settingsCmd(e),
		checkinCmd(e),
		actionCmd(e),
		statusCmd(e),
		historyCmd(e),
		alertCmd(e),
		watchCmd(e),
		serveCmd(e),
		resetCmd(e),
		simulateCmd(e),
	)
	return root
}

func addPersistentFlags(root *cobra.Command, e *env) {
	f := root.PersistentFlags()
	f.String(config.KeyDataDir, config.DefaultDataDir(), "directory holding state and config.yaml")
	f.String(config.KeyStore, state.BackendFile, "state backend: file or sqlite")
	f.String(config.KeyPassphrase, "", "seal the stored state with this passphrase")
	f.Duration(config.KeyWindow, monitor.DefaultWindow, "inactivity window")
	f.Float64(config.KeyDebounceFraction, monitor.DefaultDebounceFraction, "fraction of the window between alerts")
	f.Bool(config.KeyOpenSMS, true, "open the SMS composer on alert instead of printing the link")
	f.String(config.KeyLogLevel, config.DefaultLogLevel, "log level: debug, info, warn, error")
	f.Bool(config.KeyLogJSON, false, "log as JSON")
	f.StringVar(&e.envFile, "env-file", ".env", "dotenv file to load before resolving options")

	bindFlags(e.v, f,
		config.KeyDataDir, config.KeyStore, config.KeyPassphrase,
		config.KeyWindow, config.KeyDebounceFraction, config.KeyOpenSMS,
		config.KeyLogLevel, config.KeyLogJSON,
	)
}

// bindFlags binds flags to viper keys of the same name. Unchanged flags
// never shadow env or config.yaml values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}
}

// commandKeys are options set by flags that only some commands define.
var commandKeys = []string{config.KeyListen, config.KeyPollInterval, config.KeyRateLimit}

// bindLocalFlags binds the running command's own option flags. Binding
// happens per invocation since several commands share a key.
func bindLocalFlags(v *viper.Viper, cmd *cobra.Command) {
	for _, key := range commandKeys {
		if fl := cmd.Flags().Lookup(key); fl != nil {
			_ = v.BindPFlag(key, fl)
		}
	}
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
