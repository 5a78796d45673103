// Package parser turns raw model completions into reactloop decisions.
//
// Each variant recognises two grammars, a finish grammar and an action grammar, and always
// tries the finish grammar first:
//
//	variant         finish marker                   action grammar
//	ReAct           Finish[<answer>]                Action: <name> / Action Input: <input>, or Action: <name>[<input>]
//	MRKL            Final Answer: <answer>          Action: <name> / Action Input: <input> (numbering tolerated)
//	Conversational  <AI prefix>: <answer>           Action: <name> / Action Input: <input>
//	SelfAsk         So the final answer is: <a>     Follow up: <question> (final line only)
//
// A completion matching neither grammar yields a *reactloop.ParseError. Parsers hold only
// configuration and are safe for concurrent use.
//
// FormatInstructions returns text/template source. The agent renders it with the same data
// as the rest of the prompt, so instructions may reference {{.ToolNames}}.
package parser
