// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/batch"
	"gitlab.com/fisherprime/xlex/lexer"
	"gitlab.com/fisherprime/xlex/symbol"
)

// Output formats.
const (
	formatTable = "table"
	formatLines = "lines"
	formatJSON  = "json"
	formatDump  = "dump"
)

func cmdScan(args []string, stdout, stderr io.Writer) int {
	var (
		common commonFlags
		format string
		trace  bool
		jobs   int
	)

	fs := newFlagSet("scan", stderr)
	common.register(fs)
	fs.StringVar(&format, "format", formatTable, "output `format`: table, lines, json or dump")
	fs.BoolVar(&trace, "trace", false, "echo every source line to stderr as it is consumed")
	fs.IntVar(&jobs, "jobs", 0, "number of files scanned concurrently (default: number of CPUs)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "%s scan: no source files\n", appName)
		fs.Usage()
		return exitUsage
	}

	write, ok := formatters[format]
	if !ok {
		fmt.Fprintf(stderr, "%s scan: unknown format %q\n", appName, format)
		return exitUsage
	}

	logger := common.newLogger(stderr)
	g, err := common.loadGrammar()
	if err != nil {
		logger.Errorf("load grammar: %v", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var lexerOpts []lexer.Option
	if trace {
		// Concurrent scans interleave their trace; keep to one for a readable echo.
		lexerOpts, jobs = append(lexerOpts, lexer.WithTrace(stderr)), 1
	}

	results, err := batch.ScanFiles(ctx, fs.Args(),
		batch.WithLogger(logger),
		batch.WithDebug(common.debug),
		batch.WithGrammar(g),
		batch.WithPoolSize(jobs),
		batch.WithLexerOptions(lexerOpts...),
	)

	for _, r := range results {
		if len(results) > 1 && format != formatJSON {
			fmt.Fprintf(stdout, "==> %s <==\n", r.Path)
		}
		if wErr := write(stdout, r); wErr != nil {
			logger.Errorf("write output: %v", wErr)
			return exitFailure
		}
	}

	if err != nil {
		for _, r := range results {
			if r.Err != nil {
				logger.WithField("path", r.Path).Error(r.Err)
			}
		}
		return exitFailure
	}

	return exitOK
}

type formatter func(io.Writer, batch.Result) error

var formatters = map[string]formatter{
	formatTable: writeTable,
	formatLines: writeLines,
	formatJSON:  writeJSON,
	formatDump:  writeDump,
}

// writeTable writes a line per Token with its kind, literal text & position.
func writeTable(w io.Writer, r batch.Result) (err error) {
	for _, tok := range r.Tokens {
		if _, err = fmt.Fprintln(w, formatToken(tok)); err != nil {
			return
		}
	}

	return
}

func formatToken(tok *lexer.Token) string {
	kind := tok.Kind().String() + " "
	if tok.Kind().IsLiteral() {
		kind += tok.Text()
	}

	return fmt.Sprintf("%-25s Left: %-3d Right: %-3d Line: %d", kind, tok.Left(), tok.Right(), tok.Line())
}

// writeLines writes the Tokens grouped by source line.
func writeLines(w io.Writer, r batch.Result) (err error) {
	line := 0
	for _, tok := range r.Tokens {
		if tok.Line() != line {
			if line > 0 {
				if _, err = fmt.Fprintln(w); err != nil {
					return
				}
			}
			line = tok.Line()
			if _, err = fmt.Fprintf(w, "%d:  ", line); err != nil {
				return
			}
		}
		if _, err = fmt.Fprintf(w, "%s ", tok.Text()); err != nil {
			return
		}
	}
	if line > 0 {
		_, err = fmt.Fprintln(w)
	}

	return
}

type jsonResult struct {
	Path   string         `json:"path"`
	Tokens []*lexer.Token `json:"tokens"`
	Error  string         `json:"error,omitempty"`
}

func writeJSON(w io.Writer, r batch.Result) error {
	out := jsonResult{Path: r.Path, Tokens: r.Tokens}
	if out.Tokens == nil {
		out.Tokens = []*lexer.Token{}
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}

	return json.NewEncoder(w).Encode(out)
}

func writeDump(w io.Writer, r batch.Result) error {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(w, r.Tokens)

	return nil
}

func cmdGrammar(args []string, stdout, stderr io.Writer) int {
	var common commonFlags

	fs := newFlagSet("grammar", stderr)
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

	if common.debug {
		logger.WithFields(logrus.Fields{"reserved": len(g.Reserved), "punctuators": len(g.Punctuators)}).
			Debugf("symbols: %d", symbol.NewTable(g).Len())
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(g); err != nil {
		logger.Errorf("write grammar: %v", err)
		return exitFailure
	}

	return exitOK
}
