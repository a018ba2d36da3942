// cmd/virtolang — the vlang command-line entry point (§6): run a script
// file, run an inline snippet with -C, print version info, or drop into an
// interactive REPL (SPEC_FULL.md §4 supplement).
//
// The REPL's line editing is grounded on the teacher's cmd/msg liner usage:
// history file in the user's home directory. Ctrl-C at the prompt ends the
// REPL the same way Ctrl+D does, saving history, rather than killing the
// process.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/virtosync/virtolang"
)

const (
	appName     = "vlang"
	historyFile = ".virtolang_history"
	prompt      = ">>> "
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: vlang <file.vlang> | -C <code> | --version | repl")
		return 2
	}

	switch args[0] {
	case "--version", "-V":
		fmt.Printf("%s %s\n", appName, virtolang.Version)
		return 0
	case "repl":
		return runRepl()
	case "-C", "--code":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "vlang -C requires a code argument")
			return 2
		}
		return runSource(args[1], "<code>")
	}

	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlang: cannot read %s: %v\n", path, err)
		return 2
	}
	return runSource(string(src), path)
}

func runSource(src, file string) int {
	ip := virtolang.NewInterpreter()
	_, err := ip.Run(src, file)
	if err != nil {
		printDiagnostic(err, src)
		return 1
	}
	if taskErr := ip.Wait(); taskErr != nil {
		printDiagnostic(taskErr, src)
		return 1
	}
	return 0
}

func printDiagnostic(err error, src string) {
	if ve, ok := err.(*virtolang.VirtoError); ok {
		fmt.Fprintln(os.Stderr, ve.Diagnostic(src))
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

func runRepl() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Printf("%s %s REPL — Ctrl+D to exit\n", appName, virtolang.Version)
	ip := virtolang.NewInterpreter()

	for {
		src, err := line.Prompt(prompt)
		if err != nil {
			break // EOF (Ctrl+D) or aborted (Ctrl+C)
		}
		if src == "" {
			continue
		}
		line.AppendHistory(src)

		v, runErr := ip.Run(src, "<repl>")
		if runErr != nil {
			printDiagnostic(runErr, src)
			continue
		}
		if v.Tag != virtolang.VNull {
			fmt.Println(virtolang.FormatValue(v))
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	fmt.Println()
	return 0
}
