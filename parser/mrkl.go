package parser

import (
	"regexp"
	"strings"

	"github.com/rickchristie/reactloop"
)

// FinalAnswerMarker ends a MRKL completion.
const FinalAnswerMarker = "Final Answer:"

var mrklActionRe = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)

const mrklFormatInstructions = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{{.ToolNames}}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question`

// MRKL parses the zero-shot grammar: "Final Answer:" finishes, otherwise an
// "Action:"/"Action Input:" pair is required. Step numbering such as "Action 2:" is
// accepted, and the action input runs to the end of the completion.
type MRKL struct{}

// NewMRKL creates a MRKL parser.
func NewMRKL() *MRKL {
	return &MRKL{}
}

// Parse implements reactloop.OutputParser.
func (p *MRKL) Parse(text string) (reactloop.Decision, error) {
	if idx := strings.LastIndex(text, FinalAnswerMarker); idx >= 0 {
		answer := strings.TrimSpace(text[idx+len(FinalAnswerMarker):])
		return reactloop.NewFinish(reactloop.DefaultOutputKey, answer, text), nil
	}

	m := mrklActionRe.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, reactloop.NewParseError(text, "expected Final Answer or Action/Action Input")
	}
	return reactloop.Action{
		Tool:      strings.TrimSpace(m[1]),
		ToolInput: cleanToolInput(m[2]),
		Log:       text,
	}, nil
}

// FormatInstructions implements reactloop.OutputParser.
func (p *MRKL) FormatInstructions() string {
	return mrklFormatInstructions
}

var _ reactloop.OutputParser = (*MRKL)(nil)
