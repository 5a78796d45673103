package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/rickchristie/reactloop/agents"
	"github.com/rickchristie/reactloop/executor"
)

func newChatCmd(load runtimeLoader) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent interactively",
		Long: `Chat with the agent interactively. Each turn is a separate run; previous turns
are passed as the "chat_history" input, which the conversational agent renders
in its prompt. Type /reset to clear the history and /quit or Ctrl-D to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          colorCyan + "> " + colorReset,
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdin:           io.NopCloser(cmd.InOrStdin()),
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to create readline: %w", err)
			}
			defer rl.Close()

			c := &chat{exec: rt.Executor, out: cmd.OutOrStdout(), verbose: verbose}
			return c.loop(cmd.Context(), rl)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print each step")
	return cmd
}

// lineReader is the part of *readline.Instance the chat loop uses.
type lineReader interface {
	Readline() (string, error)
}

type chat struct {
	exec    *executor.Executor
	out     io.Writer
	verbose bool
	history []string
}

func (c *chat) loop(ctx context.Context, lines lineReader) error {
	for {
		line, err := lines.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt), errors.Is(err, io.EOF):
			fmt.Fprintf(c.out, "%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			fmt.Fprintf(c.out, "%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		case "/reset":
			c.history = nil
			fmt.Fprintf(c.out, "%shistory cleared%s\n", colorDim, colorReset)
			continue
		}

		if err := c.turn(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(c.out, "%sError: %v%s\n", colorRed, err, colorReset)
		}
	}
}

func (c *chat) turn(ctx context.Context, line string) error {
	res, err := c.exec.Run(ctx, map[string]string{
		agents.InputKey:       line,
		agents.ChatHistoryKey: strings.Join(c.history, "\n"),
	})
	if res != nil && c.verbose {
		printSteps(c.out, res.History)
	}
	if err != nil {
		return err
	}

	answer := res.Output()
	c.history = append(c.history, "Human: "+line, "AI: "+answer)
	fmt.Fprintln(c.out, answer)
	return nil
}
