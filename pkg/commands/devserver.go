package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/config"
	"tableflip.dev/allergy/pkg/runner/devserver"
)

func addDevServer(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stand-in for the allergy calendar server.",
		Long: `Run a local stand-in for the allergy calendar server.

Records are kept on disk under devserver.path. With --legacy-text the date
fragments carry only free-text lines, as older server versions rendered them.`,
		Example: `
allergy devserver
allergy devserver --addr 127.0.0.1:9000 --legacy-text
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			d := devserver.DevServer{Config: e.cfg.DevServer, Logger: e.log.Logger}
			return d.Do(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "Address to listen on.")
	cmd.Flags().Bool("legacy-text", false, "Render fragments without stored-symptom markers.")
	cmd.Flags().String("path", "", "Directory holding the records.")
	_ = e.loader.BindFlag(config.KeyDevAddr, cmd.Flags().Lookup("addr"))
	_ = e.loader.BindFlag(config.KeyDevLegacy, cmd.Flags().Lookup("legacy-text"))
	_ = e.loader.BindFlag(config.KeyDevPath, cmd.Flags().Lookup("path"))

	topLevel.AddCommand(cmd)
}
