package model

import "fmt"

// Trace accumulates the human-readable calculation steps attached to every
// result. A nil *Trace discards appends, so deep callees can log
// unconditionally.
type Trace struct {
	Steps []string
}

func (t *Trace) Addf(format string, args ...any) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, fmt.Sprintf(format, args...))
}
