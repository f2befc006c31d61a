package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/config"
	"tableflip.dev/allergy/pkg/runner/ui"
	"tableflip.dev/allergy/pkg/tui"
)

func addUI(topLevel *cobra.Command, e *env) {
	debug := false
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the text-based user interface.",
		Example: `
allergy ui
allergy ui --server https://allergies.example.com
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c, err := e.client()
			if err != nil {
				return err
			}
			e.loader.Watch(func(cfg *config.Config, err error) {
				if err != nil {
					e.log.Warn("config reload failed", zap.Error(err))
					return
				}
				e.log.SetLevel(cfg.Log.Level)
			})
			u := ui.UI{Options: tui.Options{
				Client: c,
				Bridge: e.bridgeOptions(),
				Logger: e.log.Logger,
				Debug:  debug,
			}}
			return u.Do(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Open the event log pane on start.")

	topLevel.AddCommand(cmd)
}
