package agents

import "github.com/rickchristie/reactloop"

// Constructor builds a prebuilt agent from a model and its tools.
type Constructor func(model reactloop.LanguageModel, tools []reactloop.ToolDescriptor) (*Agent, error)

// Constructors maps every prebuilt Type to its constructor.
var Constructors = map[Type]Constructor{
	TypeZeroShotReAct:       NewZeroShot,
	TypeReActDocstore:       NewReActDocstore,
	TypeSelfAskWithSearch:   NewSelfAsk,
	TypeConversationalReAct: NewConversational,
}

// Create builds a prebuilt agent by type name.
func Create(t Type, model reactloop.LanguageModel, tools []reactloop.ToolDescriptor) (*Agent, error) {
	ctor, ok := Constructors[t]
	if !ok {
		return nil, reactloop.NewConfigurationError("agent", "unknown agent type %q", t)
	}
	return ctor(model, tools)
}

// NewZeroShot builds a MRKL agent that picks tools from their descriptions alone.
func NewZeroShot(model reactloop.LanguageModel, tools []reactloop.ToolDescriptor) (*Agent, error) {
	return New(model, DefaultConfig(TypeZeroShotReAct).WithTools(tools))
}

// NewReActDocstore builds a ReAct agent over a docstore. tools must be exactly Search and
// Lookup (see the docstore package).
func NewReActDocstore(model reactloop.LanguageModel, tools []reactloop.ToolDescriptor) (*Agent, error) {
	return New(model, DefaultConfig(TypeReActDocstore).WithTools(tools))
}

// NewSelfAsk builds a self-ask-with-search agent. tools must be a single tool named
// "Intermediate Answer".
func NewSelfAsk(model reactloop.LanguageModel, tools []reactloop.ToolDescriptor) (*Agent, error) {
	return New(model, DefaultConfig(TypeSelfAskWithSearch).WithTools(tools))
}

// NewConversational builds a chat agent. Runs may pass "chat_history" alongside "input".
func NewConversational(model reactloop.LanguageModel, tools []reactloop.ToolDescriptor) (*Agent, error) {
	return New(model, DefaultConfig(TypeConversationalReAct).WithTools(tools))
}
