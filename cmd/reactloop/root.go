package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/config"
)

const defaultConfigPath = "reactloop.yaml"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "reactloop",
		Short:         "Run ReAct agents from a config file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "agent config file")

	load := func(cmd *cobra.Command) (*config.Runtime, error) {
		f, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return config.Build(f, config.Options{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		})
	}

	root.AddCommand(
		newRunCmd(load),
		newChatCmd(load),
		newBatchCmd(load),
		newValidateCmd(&configPath),
		newSchemaCmd(),
	)
	return root
}

// runtimeLoader loads the config file named by --config.
type runtimeLoader func(cmd *cobra.Command) (*config.Runtime, error)

func printSteps(w io.Writer, history reactloop.RunHistory) {
	for i, step := range history.Steps() {
		fmt.Fprintf(w, "%s[%d] %s: %s%s\n", colorCyan, i+1, step.Action.Tool, step.Action.ToolInput, colorReset)
		fmt.Fprintf(w, "%s    %s%s\n", colorDim, step.Observation, colorReset)
	}
}
