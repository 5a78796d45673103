// Package reactloop runs text-completion agents that think in Action/Observation steps.
//
// An executor repeatedly asks an [Agent] to plan. The agent renders a prompt from its
// instructions, the registered tool descriptions, the parser's format instructions and a
// scratchpad of prior steps, calls a [LanguageModel], and hands the completion to an
// [OutputParser]. The executor dispatches the resulting [Action] to a tool registry and
// records a [Step] until the agent returns a [Finish] or a budget runs out.
//
// # Quick Start
//
//	model := models.NewLCG(llm)
//
//	registry, err := tools.NewRegistry(
//	    tools.Entry(reactloop.ToolDescriptor{
//	        Name:        "Search",
//	        Description: "look up a term in the encyclopedia",
//	    }, searchTool),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	agent, err := agents.NewZeroShot(model, registry.Descriptors())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exec, err := executor.New(agent, registry, executor.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := exec.RunText(ctx, "Who wrote Dune?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output())
//
// # Packages
//
//   - parser: output parser variants (ReAct, MRKL, Conversational, SelfAsk)
//   - tools: tool registry and dispatch
//   - agents: planning policy, prompt assembly, agent types
//   - executor: the run loop, budgets, early stopping
//   - hooks: lifecycle hook registry
//   - models: language model adapters and wrappers
//   - loggers, tracing: hooks for structured logs, YAML transcripts, and spans
//   - config: agent configuration files
package reactloop
