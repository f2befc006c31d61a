package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// OutputOptions selects between the colored tables and JSON.
type OutputOptions struct {
	JSON bool
}

// AddOutputArg adds --json to cmd.
func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err on w as {"error": "..."} when JSON output is on,
// so scripts reading stdout always get a JSON document. The command then
// succeeds. Otherwise err is returned for cobra to print.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if err == nil || !o.JSON {
		return err
	}
	b, merr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}
