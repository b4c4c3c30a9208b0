package commands

import (
	"fmt"
	"io"
)

// ConsoleNotifier prints workflow outcomes, successes to out and failures to err.
type ConsoleNotifier struct {
	out io.Writer
	err io.Writer
}

func NewConsoleNotifier(out, err io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, err: err}
}

func (n *ConsoleNotifier) Success(msg string) {
	fmt.Fprintf(n.out, "✅ %s\n", msg)
}

func (n *ConsoleNotifier) Error(msg string) {
	fmt.Fprintf(n.err, "❌ %s\n", msg)
}
