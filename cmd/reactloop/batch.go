package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickchristie/reactloop/agents"
)

func newBatchCmd(load runtimeLoader) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Answer one question per line, running several at once",
		Long: `Answer one question per line of file (or stdin when file is "-" or omitted).
Answers are printed in input order, one per line. Failed runs print their error
and make the command exit non-zero after every run has finished.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load(cmd)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}
			questions, err := readQuestions(in)
			if err != nil {
				return err
			}

			inputs := make([]map[string]string, len(questions))
			for i, q := range questions {
				inputs[i] = map[string]string{agents.InputKey: q}
			}

			results, runErr := rt.Executor.RunAll(cmd.Context(), inputs, parallel)
			for i, res := range results {
				switch {
				case res == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s(no result)%s\n", i+1, colorRed, colorReset)
				case res.Err != nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s%v%s\n", i+1, colorRed, res.Err, colorReset)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, res.Output())
				}
			}
			return runErr
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "maximum concurrent runs, 0 for no limit")
	return cmd
}

func readQuestions(r io.Reader) ([]string, error) {
	var questions []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			questions = append(questions, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}
