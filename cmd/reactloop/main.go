// Command reactloop runs ReAct agents described by a config file.
//
//	reactloop run -c agent.yaml "What is the capital of France?"
//	reactloop chat -c agent.yaml
//	reactloop batch -c agent.yaml --parallel 4 questions.txt
//	reactloop validate -c agent.yaml
//	reactloop schema
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		stop()
		os.Exit(1)
	}
}
