package main

import (
	"fmt"
	"maps"

	"github.com/spf13/cobra"

	"github.com/rickchristie/reactloop/agents"
)

func newRunCmd(load runtimeLoader) *cobra.Command {
	var (
		inputs  map[string]string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "run [question]",
		Short: "Run the agent once and print its answer",
		Long: `Run the agent once and print its answer.

The question is passed as the "input" key. Agents with more input keys take them
with --input:

  reactloop run "What is 2+2?"
  reactloop run --input chat_history="Human: hi" "What did I say?"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}

			values := maps.Clone(inputs)
			if values == nil {
				values = map[string]string{}
			}
			if len(args) == 1 {
				values[agents.InputKey] = args[0]
			}

			res, err := rt.Executor.Run(cmd.Context(), values)
			if res != nil && verbose {
				printSteps(cmd.ErrOrStderr(), res.History)
			}
			if err != nil {
				return err
			}
			if res.State.IsBudgetStop() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%sstopped: %s%s\n", colorYellow, res.State, colorReset)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output())
			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&inputs, "input", "i", nil, "extra input as key=value (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each step to stderr")
	return cmd
}
