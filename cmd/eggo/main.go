// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"eggo/grammar"
	"eggo/internal/ast"
	"eggo/internal/driver"
	"eggo/repl"
)

func main() {
	limit := flag.Int("limit", 0, "override every (run N) command's limit with N (0: honour the file)")
	useColor := flag.Bool("color", true, "colour status lines")
	flag.Parse()
	color.NoColor = !*useColor

	if flag.NArg() < 1 {
		repl.Start(os.Stdin, os.Stdout)
		return
	}
	path := flag.Arg(0)

	prog, err := grammar.ParseFile(path)
	if err != nil {
		os.Exit(1)
	}

	cmds, err := grammar.Lower(prog, path)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	if *limit > 0 {
		for i := range cmds {
			if cmds[i].Kind == ast.CmdRun {
				cmds[i].Limit = *limit
			}
		}
	}

	d := driver.New()
	msgs, err := d.RunProgram(cmds)
	for _, m := range msgs {
		if len(m) >= 6 && m[:6] == "Error:" {
			color.Red("%s", m)
		} else {
			color.Green("%s", m)
		}
	}
	if err != nil {
		color.Red("fatal: %s", err)
		os.Exit(1)
	}
}
