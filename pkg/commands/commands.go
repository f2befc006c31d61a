package commands

import (
	"fmt"
	"io"
	"os"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/bridge"
	"tableflip.dev/allergy/pkg/client"
	"tableflip.dev/allergy/pkg/config"
	"tableflip.dev/allergy/pkg/logging"
)

// env is the state shared by the subcommands of one invocation.
type env struct {
	configFile string
	loader     *config.Loader
	cfg        *config.Config
	log        *logging.Logger
	// logTo receives CLI logs when no log file is configured.
	logTo io.Writer
}

func New() *cobra.Command {
	e := &env{loader: config.NewLoader(), logTo: os.Stderr}

	cmd := &cobra.Command{
		Use:   "allergy",
		Short: base.Wrap80("Track daily allergy symptoms against an allergy calendar server."),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if e.log != nil {
				_ = e.log.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.configFile, "config", "",
		"Config file to read instead of searching for .allergy.yaml.")
	flags.String("server", "",
		"Base URL of the allergy calendar server.")
	flags.String("log-level", "",
		"Log level: debug, info, warn or error.")
	flags.String("log-file", "",
		"Write logs to this file.")
	_ = e.loader.BindFlag(config.KeyServer, flags.Lookup("server"))
	_ = e.loader.BindFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = e.loader.BindFlag(config.KeyLogFile, flags.Lookup("log-file"))

	addCommands(cmd, e)
	return cmd
}

func addCommands(topLevel *cobra.Command, e *env) {
	addUI(topLevel, e)
	addShow(topLevel, e)
	addAdd(topLevel, e)
	addDelete(topLevel, e)
	addMonth(topLevel, e)
	addDevServer(topLevel, e)
	addInfo(topLevel, e)
	addVersion(topLevel)
}

func (e *env) load(cmd *cobra.Command) error {
	if e.configFile != "" {
		e.loader.SetConfigFile(e.configFile)
	}
	cfg, err := e.loader.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg

	opts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if opts.File == "" && cmd.Name() != "ui" {
		opts.Writer = e.logTo
	}
	e.log, err = logging.New(opts)
	return err
}

func (e *env) client() (*client.Client, error) {
	opts := []client.Option{client.WithLogger(e.log.Logger)}
	if e.cfg.CSRFToken != "" {
		opts = append(opts, client.WithToken(client.StaticToken(e.cfg.CSRFToken)))
	}
	switch {
	case e.cfg.Username != "":
		opts = append(opts, client.WithCredentials(e.cfg.Username, e.cfg.Password))
	case e.cfg.SessionCookie != "":
		opts = append(opts, client.WithSessionCookie(e.cfg.SessionCookie))
	}
	c, err := client.New(e.cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("server %q: %w", e.cfg.Server, err)
	}
	return c, nil
}

func (e *env) bridgeOptions() bridge.Options {
	return bridge.Options{
		SettleDelay:  e.cfg.SettleDelay,
		DiscardStale: e.cfg.DiscardStale,
		Logger:       e.log.Logger,
	}
}
