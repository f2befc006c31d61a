package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/commands/options"
	"tableflip.dev/allergy/pkg/runner/show"
)

func addShow(topLevel *cobra.Command, e *env) {
	on := &options.OnOptions{}
	output := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the symptoms recorded for a date.",
		Example: `
allergy show
allergy show --on 2024-3-10 --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := func() error {
				date, err := on.GetOn()
				if err != nil {
					return err
				}
				c, err := e.client()
				if err != nil {
					return err
				}
				s := show.Show{
					Client:  c,
					Options: e.bridgeOptions(),
					Date:    date,
					JSON:    output.JSON,
					Out:     cmd.OutOrStdout(),
				}
				return s.Do(cmd.Context())
			}()
			return output.HandleError(cmd.OutOrStdout(), err)
		},
	}
	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
