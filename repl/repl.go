// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"eggo/grammar"
	"eggo/internal/driver"
)

const PROMPT = ">> "

// Start runs an interactive loop over in: each top-level s-expression
// command is parsed, lowered, and run against one live driver.Driver, so
// datatypes/functions/rules declared on one line are visible to the next.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	d := driver.New()

	var buf strings.Builder
	depth := 0

	fmt.Fprint(out, PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		depth += strings.Count(line, "(") - strings.Count(line, ")")
		buf.WriteString(line)
		buf.WriteString("\n")

		if depth > 0 {
			continue
		}
		depth = 0

		src := buf.String()
		buf.Reset()
		if strings.TrimSpace(src) == "" {
			fmt.Fprint(out, PROMPT)
			continue
		}

		runLine(d, out, src)
		fmt.Fprint(out, PROMPT)
	}
}

func runLine(d *driver.Driver, out io.Writer, src string) {
	prog, err := grammar.ParseString("<repl>", src)
	if err != nil {
		return
	}

	cmds, err := grammar.Lower(prog, "<repl>")
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "%s\n", err)
		return
	}

	msgs, err := d.RunProgram(cmds)
	for _, m := range msgs {
		fmt.Fprintln(out, m)
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "fatal: %s\n", err)
	}
}
