// Package agents implements the prompt-driven planning policy.
//
// An Agent renders one prompt per planning call:
//
//	<prefix>
//
//	<name>: <description>      (one line per tool)
//
//	<format instructions>      (from the output parser)
//
//	<suffix>                   (inputs and the scratchpad)
//
// The scratchpad is a pure function of the run history. Each step contributes its log, the
// observation prefix and observation, and the LLM prefix inviting the next thought. The
// observation prefix also determines the stop sequences, so the model stops before writing
// an observation of its own.
//
// # Prebuilt Types
//
//	zero-shot-react-description        MRKL parser, any tools
//	react-docstore                     ReAct parser, exactly Search and Lookup
//	self-ask-with-search               SelfAsk parser, exactly "Intermediate Answer"
//	conversational-react-description   Conversational parser, accepts chat_history
//
// Tool set constraints are checked by New. An agent that was built successfully never fails
// at plan time because of its configuration.
//
// The agent never retries. Wrap the model with models.Retrying for that.
package agents
