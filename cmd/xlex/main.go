// SPDX-License-Identifier: MIT

// Command xlex tokenizes X language source files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/symbol"
)

const appName = "xlex"

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitUsage
)

const usageText = `usage: %[1]s <command> [flags]

commands:
  scan [flags] file...   tokenize source files
  repl [flags]           tokenize lines interactively
  grammar [flags]        print the active grammar as JSON

run '%[1]s <command> -h' for the command's flags
`

type (
	// commonFlags are shared by every command.
	commonFlags struct {
		debug   bool
		grammar string
	}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(stderr, usageText, appName)
		return exitUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "scan":
		return cmdScan(rest, stdout, stderr)
	case "repl":
		return cmdRepl(rest, stdout, stderr)
	case "grammar":
		return cmdGrammar(rest, stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprintf(stdout, usageText, appName)
		return exitOK
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		fmt.Fprintf(stderr, usageText, appName)
		return exitUsage
	}
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.debug, "debug", false, "log debug messages")
	fs.StringVar(&c.grammar, "grammar", "", "JSON grammar `file` replacing the default reserved words & punctuators")
}

// newLogger configures the diagnostics logger.
func (c *commonFlags) newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if c.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

// loadGrammar obtains the grammar named by the -grammar flag, or the default one.
func (c *commonFlags) loadGrammar() (g symbol.Grammar, err error) {
	if c.grammar == "" {
		g = symbol.DefaultGrammar()
		return
	}

	f, err := os.Open(c.grammar)
	if err != nil {
		return
	}
	defer f.Close()

	return symbol.LoadGrammar(f)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(appName+" "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	return fs
}
