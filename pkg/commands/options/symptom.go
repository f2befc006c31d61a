package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/allergy/pkg/symptom"
)

// SymptomOptions names a symptom and, for add, its intensity.
type SymptomOptions struct {
	Symptom   string
	Intensity int
}

func symptomNames() string {
	names := make([]string, 0, 4)
	for _, s := range symptom.Catalog() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func AddSymptomArg(cmd *cobra.Command, o *SymptomOptions) {
	cmd.Flags().StringVarP(&o.Symptom, "symptom", "s", "",
		"Symptom to record, one of "+symptomNames()+".")
	_ = cmd.MarkFlagRequired("symptom")
}

func AddIntensityArg(cmd *cobra.Command, o *SymptomOptions) {
	cmd.Flags().IntVarP(&o.Intensity, "intensity", "n", 0,
		fmt.Sprintf("Intensity from %d to %d.", symptom.MinIntensity, symptom.MaxIntensity))
	_ = cmd.MarkFlagRequired("intensity")
}

// GetSymptom accepts the identifier in any case, with '-' or ' ' for '_'.
func (o *SymptomOptions) GetSymptom() (symptom.Symptom, error) {
	id := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(o.Symptom)))
	return symptom.Parse(id)
}
