package parser

import (
	"strings"

	"github.com/rickchristie/reactloop"
)

const (
	// IntermediateAnswerTool is the only tool a self-ask agent may dispatch to.
	IntermediateAnswerTool = "Intermediate Answer"

	// SelfAskFinishMarker precedes the final answer on the last line.
	SelfAskFinishMarker = "So the final answer is: "
)

// SelfAskFollowUps are the markers that turn the last line into a follow-up question.
var SelfAskFollowUps = []string{"Follow up:", "Followup:"}

const selfAskFormatInstructions = `When the question needs more facts, ask one follow-up question per line:

Are follow up questions needed here: Yes.
Follow up: the follow-up question
Intermediate answer: the answer to the follow-up question

When you know the answer, end with:

So the final answer is: the final answer`

// SelfAsk parses self-ask-with-search completions. Only the final line is inspected.
// Trailing blank lines are ignored.
type SelfAsk struct{}

// NewSelfAsk creates a SelfAsk parser.
func NewSelfAsk() *SelfAsk {
	return &SelfAsk{}
}

// Parse implements reactloop.OutputParser.
func (p *SelfAsk) Parse(text string) (reactloop.Decision, error) {
	trimmed := strings.TrimRight(text, " \t\r\n")
	lastLine := trimmed
	if idx := strings.LastIndex(trimmed, "\n"); idx >= 0 {
		lastLine = trimmed[idx+1:]
	}

	if idx := strings.Index(lastLine, SelfAskFinishMarker); idx >= 0 {
		answer := lastLine[idx+len(SelfAskFinishMarker):]
		return reactloop.NewFinish(reactloop.DefaultOutputKey, answer, text), nil
	}

	for _, marker := range SelfAskFollowUps {
		if !strings.Contains(lastLine, marker) {
			continue
		}
		question := lastLine[strings.LastIndex(lastLine, ":")+1:]
		return reactloop.Action{
			Tool:      IntermediateAnswerTool,
			ToolInput: strings.TrimSpace(question),
			Log:       text,
		}, nil
	}

	return nil, reactloop.NewParseError(text, "final line has neither a follow-up nor a final answer")
}

// FormatInstructions implements reactloop.OutputParser.
func (p *SelfAsk) FormatInstructions() string {
	return selfAskFormatInstructions
}

var _ reactloop.OutputParser = (*SelfAsk)(nil)
