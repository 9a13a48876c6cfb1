// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/lexer"
	"gitlab.com/fisherprime/xlex/symbol"
)

const (
	historyFile = ".xlex_history"
	prompt      = "xlex> "
)

const replHelp = `Enter source text to tokenize it; the symbol table persists between lines.

REPL commands:
  :symbols  list the interned symbols
  :help     show this message
  :quit     exit the REPL
`

type (
	// prompter reads the REPL's input lines, see liner.State.
	prompter interface {
		Prompt(string) (string, error)
		AppendHistory(string)
	}
)

func cmdRepl(args []string, stdout, stderr io.Writer) int {
	var common commonFlags

	fs := newFlagSet("repl", stderr)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	logger := common.newLogger(stderr)
	g, err := common.loadGrammar()
	if err != nil {
		logger.Errorf("load grammar: %v", err)
		return exitFailure
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		_, _ = ln.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(stdout, "%s REPL, grammar %s\nCtrl+D exits. Type :help for commands.\n", appName, versionOf(g))
	repl(ln, stdout, logger, common.debug, symbol.NewTable(g))

	if f, err := os.Create(history); err == nil {
		_, _ = ln.WriteHistory(f)
		f.Close()
	} else if common.debug {
		logger.Debugf("write history: %v", err)
	}

	return exitOK
}

// repl tokenizes every line read from p until the input ends or :quit.
func repl(p prompter, w io.Writer, logger logrus.FieldLogger, debug bool, table *symbol.Table) {
	for {
		line, err := p.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if !errors.Is(err, io.EOF) {
				logger.Errorf("read input: %v", err)
			}
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		p.AppendHistory(line)

		switch input {
		case ":quit", ":q":
			return
		case ":help":
			fmt.Fprint(w, replHelp)
			continue
		case ":symbols":
			for _, s := range table.Symbols() {
				fmt.Fprintf(w, "%-12s %v\n", s.Text(), s.Kind())
			}
			continue
		}

		l := lexer.FromReader(strings.NewReader(line),
			lexer.WithLogger(logger), lexer.WithDebug(debug), lexer.WithTable(table))

		// Diagnostics for a failure are logged by the lexer.
		tokens, _ := l.Tokens()
		for _, tok := range tokens {
			fmt.Fprintln(w, formatToken(tok))
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}

	return filepath.Join(home, historyFile)
}

func versionOf(g symbol.Grammar) string {
	if g.Version == "" {
		return "(custom)"
	}

	return g.Version
}
