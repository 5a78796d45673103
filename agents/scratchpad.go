package agents

import (
	"strings"

	"github.com/rickchristie/reactloop"
)

// FinalAnswerInstruction is appended to the scratchpad when the executor asks for one last
// completion after a budget ran out.
const FinalAnswerInstruction = "\n\nI now need to return a final answer based on the previous steps:"

// Scratchpad renders run history as prompt text.
//
// Each step renders as its log, a newline, the observation prefix and observation, a
// newline, and the LLM prefix that invites the next thought.
type Scratchpad struct {
	ObservationPrefix string
	LLMPrefix         string

	// Window keeps only the last Window steps. 0 keeps all steps.
	Window int
}

// Render returns the scratchpad text for history. It depends only on its inputs.
func (s Scratchpad) Render(history reactloop.RunHistory) string {
	steps := history.Steps()
	if s.Window > 0 && len(steps) > s.Window {
		steps = steps[len(steps)-s.Window:]
	}

	var b strings.Builder
	for _, step := range steps {
		b.WriteString(step.Action.Log)
		b.WriteString("\n")
		b.WriteString(s.ObservationPrefix)
		b.WriteString(step.Observation)
		b.WriteString("\n")
		b.WriteString(s.LLMPrefix)
	}
	return b.String()
}

// StopSequences returns the sequences that end a completion before the model invents an
// observation.
func (s Scratchpad) StopSequences() []string {
	marker := strings.TrimRight(s.ObservationPrefix, " \t\r\n")
	if marker == "" {
		return nil
	}
	return []string{"\n" + marker, "\n\t" + marker}
}
