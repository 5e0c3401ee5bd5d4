// outcome.go - Per-question generation state and the tagged result of one generation

package discovery

import (
	"encoding/json"
	"strings"
)

// WarningMarker prefixes warning outcomes in their display form. Clients
// tell a generated answer from a warning by this prefix alone.
const WarningMarker = "⚠️ "

// Status is the lifecycle of one question within a generation pass.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeWarning OutcomeKind = "warning"
)

// Outcome is either a generated answer or a warning explaining why none was produced.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

func Success(text string) Outcome { return Outcome{Kind: OutcomeSuccess, Text: text} }
func Warning(text string) Outcome { return Outcome{Kind: OutcomeWarning, Text: text} }

func (o Outcome) IsWarning() bool { return o.Kind == OutcomeWarning }

// Status is the terminal question status this outcome leads to.
func (o Outcome) Status() Status {
	if o.IsWarning() {
		return StatusError
	}
	return StatusSuccess
}

// Display renders the outcome the way it is shown and saved as a generated answer.
func (o Outcome) Display() string {
	if o.IsWarning() {
		return WarningMarker + o.Text
	}
	return o.Text
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status  OutcomeKind `json:"status"`
		Content string      `json:"content"`
		Display string      `json:"display"`
	}{o.Kind, o.Text, o.Display()})
}

// ParseDisplay recovers an Outcome from its display form.
func ParseDisplay(s string) Outcome {
	if rest, ok := strings.CutPrefix(s, WarningMarker); ok {
		return Warning(rest)
	}
	return Success(s)
}
