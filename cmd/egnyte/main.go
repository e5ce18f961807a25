package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/egnyte/internal/cliconfig"
	"github.com/bft-labs/egnyte/pkg/egnyte"
	logAdapter "github.com/bft-labs/egnyte/pkg/log"
)

const longHelp = `Work with files in an Egnyte domain from the command line.

Credentials come from flags, EGNYTE_* environment variables, or
$HOME/.egnyte/config.toml, in that order of precedence.`

var exampleUsage = strings.TrimSpace(`
  egnyte --domain acme mkdir "/Shared/Reports/2024"
  egnyte put ./q3.pdf /Shared/Reports/q3.pdf
  egnyte get /Shared/Reports/q3.pdf ./q3-copy.pdf
  egnyte watch ./outbox /Shared/Inbox
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
	client  *egnyte.Client
}

// setup resolves configuration (flags > env > file > defaults) and builds
// the logger and client.
func (a *app) setup(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.log = cliconfig.Logger(os.Stderr, a.cfg.Level())

	logCfg := a.cfg
	if logCfg.Token != "" {
		logCfg.Token = "*****"
	}
	a.log.Debug().Interface("config", logCfg).Msg("configuration")

	opts := []egnyte.Option{
		egnyte.WithTimeout(a.cfg.HTTPTimeout),
		egnyte.WithLogger(logAdapter.NewZerologAdapterWithLogger(a.log)),
	}
	if a.cfg.BaseURL != "" {
		opts = append(opts, egnyte.WithBaseURL(a.cfg.BaseURL))
	}
	client, err := egnyte.NewClient(a.cfg.Domain, a.cfg.Token, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	a.client = client
	return nil
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "egnyte",
		Short:         "Egnyte file system client",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.egnyte/config.toml)")
	flags.StringVar(&a.cfg.Domain, "domain", a.cfg.Domain, "Egnyte domain, e.g. acme for acme.egnyte.com")
	flags.StringVar(&a.cfg.Token, "token", "", "OAuth access token")
	flags.StringVar(&a.cfg.BaseURL, "base-url", a.cfg.BaseURL, "API base URL (overrides --domain)")
	if err := flags.MarkHidden("base-url"); err != nil {
		a.log.Info().Err(err).Msg("failed to hide base-url flag")
	}
	flags.DurationVar(&a.cfg.HTTPTimeout, "timeout", a.cfg.HTTPTimeout, "HTTP timeout")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newMkdirCommand(a),
		newStatCommand(a),
		newRemoveCommand(a),
		newCopyCommand(a),
		newMoveCommand(a),
		newGetCommand(a),
		newPutCommand(a),
		newWatchCommand(a),
	)
	return root
}

func main() {
	a := &app{
		cfg: cliconfig.DefaultConfig(),
		log: cliconfig.Logger(os.Stderr, zerolog.InfoLevel),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		a.log.Error().Err(err).Msg("egnyte")
		os.Exit(1)
	}
}
