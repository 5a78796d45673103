package parser

import (
	"regexp"
	"strings"

	"github.com/rickchristie/reactloop"
)

var reactFinishRe = regexp.MustCompile(`(?m)^[ \t]*(?:Action\s*\d*\s*:\s*)?Finish\[(.*)\][ \t\r]*$`)

const reactFormatInstructions = `Solve the question with interleaving Thought, Action, Observation steps.
Thought can reason about the current situation. Action names one of [{{.ToolNames}}], written either as

Action: the tool name
Action Input: the input to the tool

or on one line as Action: ToolName[input].

When you know the answer, write it on its own line as

Action: Finish[the final answer]`

// ReAct parses the ReAct grammar used by the docstore agent.
//
// A line "Finish[<answer>]", optionally prefixed by "Action: ", finishes the run. Otherwise
// the completion must contain an "Action: <name>" line followed by an "Action Input: <input>"
// line (blank lines between them are ignored), or an "Action: <name>[<input>]" line.
type ReAct struct{}

// NewReAct creates a ReAct parser.
func NewReAct() *ReAct {
	return &ReAct{}
}

// Parse implements reactloop.OutputParser. CRLF line endings are accepted; the returned
// log keeps the completion as written.
func (p *ReAct) Parse(text string) (reactloop.Decision, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if all := reactFinishRe.FindAllStringSubmatch(normalized, -1); len(all) > 0 {
		answer := all[len(all)-1][1]
		return reactloop.NewFinish(reactloop.DefaultOutputKey, answer, text), nil
	}
	if action, ok := findLineAction(normalized); ok {
		action.Log = text
		return action, nil
	}
	if action, ok := findBracketAction(normalized); ok {
		action.Log = text
		return action, nil
	}
	return nil, reactloop.NewParseError(text, "expected Finish[...] or an Action line")
}

// FormatInstructions implements reactloop.OutputParser.
func (p *ReAct) FormatInstructions() string {
	return reactFormatInstructions
}

var _ reactloop.OutputParser = (*ReAct)(nil)
