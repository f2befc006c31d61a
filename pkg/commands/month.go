package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/commands/options"
	"tableflip.dev/allergy/pkg/runner/month"
)

func addMonth(topLevel *cobra.Command, _ *env) {
	mo := &options.MonthOptions{}
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month calendar, weeks starting on Monday.",
		Example: `
allergy month
allergy month --on 2024-3
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			c, day, err := mo.GetMonth()
			if err != nil {
				return err
			}
			m := month.Month{Cursor: c, Selected: day, Out: cmd.OutOrStdout()}
			return m.Do(cmd.Context())
		},
	}
	options.AddMonthArgs(cmd, mo)

	topLevel.AddCommand(cmd)
}
