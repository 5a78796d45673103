package parser

import (
	"regexp"
	"strings"

	"github.com/rickchristie/reactloop"
)

var (
	actionLineRe      = regexp.MustCompile(`^\s*Action\s*\d*\s*:\s*(.*?)\s*$`)
	actionInputLineRe = regexp.MustCompile(`^\s*Action\s*\d*\s*Input\s*\d*\s*:\s*(.*)$`)
	bracketActionRe   = regexp.MustCompile(`^(.*?)\[(.*)\]$`)
)

// cleanToolInput strips surrounding whitespace and one layer of double quotes.
func cleanToolInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, `"`)
	input = strings.TrimSuffix(input, `"`)
	return input
}

// findLineAction scans text for an "Action: <name>" line whose next non-blank line is
// "Action Input: <input>". It returns the first such pair.
func findLineAction(text string) (reactloop.Action, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := actionLineRe.FindStringSubmatch(line)
		if m == nil || m[1] == "" {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			in := actionInputLineRe.FindStringSubmatch(lines[j])
			if in == nil {
				break
			}
			return reactloop.Action{
				Tool:      strings.TrimSpace(m[1]),
				ToolInput: cleanToolInput(in[1]),
				Log:       text,
			}, true
		}
	}
	return reactloop.Action{}, false
}

// finishToolName is the ReAct finish marker. It is never returned as a tool name.
const finishToolName = "Finish"

// findBracketAction scans text for the last "Action: <name>[<input>]" line.
func findBracketAction(text string) (reactloop.Action, bool) {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		m := actionLineRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		b := bracketActionRe.FindStringSubmatch(m[1])
		if b == nil || strings.TrimSpace(b[1]) == finishToolName {
			continue
		}
		return reactloop.Action{
			Tool:      strings.TrimSpace(b[1]),
			ToolInput: cleanToolInput(b[2]),
			Log:       text,
		}, true
	}
	return reactloop.Action{}, false
}
