package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/commands/options"
	"tableflip.dev/allergy/pkg/runner/mutate"
)

func addAdd(topLevel *cobra.Command, e *env) {
	on := &options.OnOptions{}
	so := &options.SymptomOptions{}
	output := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a symptom intensity for a date.",
		Example: `
allergy add --symptom sneezing --intensity 6
allergy add -s itchy-eyes -n 3 --on 3/9
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := func() error {
				date, err := on.GetOn()
				if err != nil {
					return err
				}
				s, err := so.GetSymptom()
				if err != nil {
					return err
				}
				c, err := e.client()
				if err != nil {
					return err
				}
				a := mutate.Add{
					Client:    c,
					Options:   e.bridgeOptions(),
					Date:      date,
					Symptom:   s,
					Intensity: so.Intensity,
					JSON:      output.JSON,
					Out:       cmd.OutOrStdout(),
				}
				return a.Do(cmd.Context())
			}()
			return output.HandleError(cmd.OutOrStdout(), err)
		},
	}
	options.AddOnArgs(cmd, on)
	options.AddSymptomArg(cmd, so)
	options.AddIntensityArg(cmd, so)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, e *env) {
	on := &options.OnOptions{}
	so := &options.SymptomOptions{}
	output := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Remove a recorded symptom from a date.",
		Example: `
allergy delete --symptom headache
allergy rm -s runny-nose --on 2024-3-9
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := func() error {
				date, err := on.GetOn()
				if err != nil {
					return err
				}
				s, err := so.GetSymptom()
				if err != nil {
					return err
				}
				c, err := e.client()
				if err != nil {
					return err
				}
				d := mutate.Delete{
					Client:  c,
					Options: e.bridgeOptions(),
					Date:    date,
					Symptom: s,
					JSON:    output.JSON,
					Out:     cmd.OutOrStdout(),
				}
				return d.Do(cmd.Context())
			}()
			return output.HandleError(cmd.OutOrStdout(), err)
		},
	}
	options.AddOnArgs(cmd, on)
	options.AddSymptomArg(cmd, so)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
