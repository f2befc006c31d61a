package bridge

import (
	"fmt"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/symptom"
)

// Request kinds, as reported in messages and logs.
const (
	OpFetch  = "fetch"
	OpAdd    = "add"
	OpDelete = "delete"
)

// FragmentMsg carries a fragment answer back to the program loop.
type FragmentMsg struct {
	Seq      uint64
	Op       string
	Date     calendar.Date
	Body     string
	Triggers []string
}

// RequestFailedMsg reports a request that did not succeed. It is also an
// error, so the UI can show it as is.
type RequestFailedMsg struct {
	Op      string
	Seq     uint64
	Date    calendar.Date
	Symptom symptom.Symptom
	Err     error
}

func (m RequestFailedMsg) Error() string {
	if m.Symptom != "" {
		return fmt.Sprintf("%s %s on %s: %v", m.Op, m.Symptom, m.Date, m.Err)
	}
	return fmt.Sprintf("%s %s: %v", m.Op, m.Date, m.Err)
}

func (m RequestFailedMsg) Unwrap() error { return m.Err }

// DeletedMsg acknowledges a delete request.
type DeletedMsg struct {
	Seq     uint64
	Date    calendar.Date
	Symptom symptom.Symptom
}

// settledMsg triggers the reconciliation scheduled after a swap.
type settledMsg struct {
	swap int
}
