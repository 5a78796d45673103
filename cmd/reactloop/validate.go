package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickchristie/reactloop/config"
)

func newValidateCmd(configPath *string) *cobra.Command {
	var build bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file against its schema",
		Long: `Check the config file against its schema. With --build the agent, tools and
executor are also constructed, which catches tool sets the agent type rejects and
missing API tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if build {
				if _, err := config.Build(f, config.Options{Getenv: os.Getenv, Stderr: cmd.ErrOrStderr()}); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s: ok%s (agent %s, model %s, %d tools)\n",
				colorGreen, *configPath, colorReset, f.Agent.Type, f.Model.Provider, len(f.Tools))
			return nil
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "also build the runtime")
	return cmd
}
