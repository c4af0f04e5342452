package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sevigo/reposync/internal/progress"
)

// consoleSink renders progress events for a terminal. Fractional events get
// a colored percentage; failures would already carry their description in
// the message text.
type consoleSink struct {
	out     io.Writer
	percent *color.Color
}

func newConsoleSink(out io.Writer) *consoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &consoleSink{out: out, percent: color.New(color.FgCyan)}
}

func (s *consoleSink) Push(ev progress.Event) {
	if ev.HasFraction {
		fmt.Fprintf(s.out, "%s %s\n", ev.Message, s.percent.Sprintf("(%.0f%%)", ev.Fraction*100))
		return
	}
	fmt.Fprintln(s.out, ev.Message)
}
