package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/commands/options"
	"tableflip.dev/allergy/pkg/runner/info"
	"tableflip.dev/allergy/pkg/store"
)

func addInfo(topLevel *cobra.Command, e *env) {
	output := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where records are stored.",
		Example: `
allergy info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			i := info.Info{Config: e.cfg, Out: cmd.OutOrStdout()}
			// Only look at the dev server store when it already exists.
			if _, err := os.Stat(e.cfg.DevServer.BasePath()); err == nil {
				p, err := store.Load(e.cfg.DevServer)
				if err != nil {
					return output.HandleError(cmd.OutOrStdout(), err)
				}
				i.Persistence = p
			}
			return output.HandleError(cmd.OutOrStdout(), i.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
