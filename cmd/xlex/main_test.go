// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"gitlab.com/fisherprime/xlex/symbol"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRun(t *testing.T) {
	good := writeSource(t, "good.x", "program {\n  int x // counter\n  x = 1.5e2\n}\n")
	bad := writeSource(t, "bad.x", "x = 'ab'\n")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout []string
	}{
		{
			name:     "no command",
			wantCode: exitUsage,
		},
		{
			name:     "unknown command",
			args:     []string{"compile"},
			wantCode: exitUsage,
		},
		{
			name:     "scan without files",
			args:     []string{"scan"},
			wantCode: exitUsage,
		},
		{
			name:     "unknown format",
			args:     []string{"scan", "-format", "xml", good},
			wantCode: exitUsage,
		},
		{
			name:     "table",
			args:     []string{"scan", good},
			wantCode: exitOK,
			wantStdout: []string{
				"Program ",
				"Identifier x",
				"Scientific 1.5e2 ",
				"Left: 6   Right: 10  Line: 3",
			},
		},
		{
			name:       "lines",
			args:       []string{"scan", "-format", "lines", good},
			wantCode:   exitOK,
			wantStdout: []string{"1:  program { \n2:  int x \n3:  x = 1.5e2 \n4:  } \n"},
		},
		{
			name:       "failure",
			args:       []string{"scan", good, bad},
			wantCode:   exitFailure,
			wantStdout: []string{"==> " + good + " <==", "==> " + bad + " <==", "Assign "},
		},
		{
			name:       "grammar",
			args:       []string{"grammar"},
			wantCode:   exitOK,
			wantStdout: []string{`"text": "while"`, `"kind": "LessEqual"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			if got := run(tt.args, &stdout, &stderr); got != tt.wantCode {
				t.Errorf("run() = %d, want %d; stderr: %s", got, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("run() stdout = %q, want it to contain %q", stdout.String(), want)
				}
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	path := writeSource(t, "prog.x", "if a <= 'b'")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"scan", "-format", "json", path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run() = %d; stderr: %s", code, stderr.String())
	}

	var got jsonResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.Path != path || len(got.Tokens) != 4 || got.Error != "" {
		t.Errorf("run() json = %s", stdout.String())
	}
}

func TestRun_CustomGrammar(t *testing.T) {
	var grammar bytes.Buffer
	if code := run([]string{"grammar"}, &grammar, io.Discard); code != exitOK {
		t.Fatalf("run(grammar) = %d", code)
	}

	g, err := symbol.LoadGrammar(&grammar)
	if err != nil {
		t.Fatalf("LoadGrammar() error = %v", err)
	}
	g.Version = ""
	g.Punctuators = append(g.Punctuators, symbol.Entry{Text: "#", Kind: symbol.Comment})

	buf, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	grammarPath := writeSource(t, "grammar.json", string(buf))
	src := writeSource(t, "prog.x", "a # b\nc")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"scan", "-grammar", grammarPath, "-format", "lines", src}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run() = %d; stderr: %s", code, stderr.String())
	}
	if got, want := stdout.String(), "1:  a \n2:  c \n"; got != want {
		t.Errorf("run() stdout = %q, want %q", got, want)
	}

	if code := run([]string{"scan", "-grammar", src, src}, io.Discard, io.Discard); code != exitFailure {
		t.Errorf("run() with an invalid grammar = %d, want %d", code, exitFailure)
	}
}

func TestRun_Trace(t *testing.T) {
	path := writeSource(t, "prog.x", "a\n// note\nb\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"scan", "-trace", path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run() = %d; stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "a\n// note\nb\n") {
		t.Errorf("trace = %q, want the source echoed", stderr.String())
	}
}

type scriptedPrompter struct {
	lines   []string
	history []string
}

func (s *scriptedPrompter) Prompt(string) (line string, err error) {
	if len(s.lines) < 1 {
		err = io.EOF
		return
	}
	line, s.lines = s.lines[0], s.lines[1:]

	return
}

func (s *scriptedPrompter) AppendHistory(line string) { s.history = append(s.history, line) }

func TestRepl(t *testing.T) {
	logger, hook := test.NewNullLogger()
	table := symbol.NewTable(symbol.DefaultGrammar())

	p := &scriptedPrompter{lines: []string{"count = 1", "", "count # x", ":symbols", ":quit", "never"}}

	var out bytes.Buffer
	repl(p, &out, logger, false, table)

	got := out.String()
	for _, want := range []string{"Identifier count", "Integer 1", fmt.Sprintf("%-12s %v", "count", symbol.Identifier)} {
		if !strings.Contains(got, want) {
			t.Errorf("repl() output = %q, want it to contain %q", got, want)
		}
	}
	if len(p.lines) != 1 {
		t.Errorf("repl() stopped with %d lines left, want 1", len(p.lines))
	}
	if len(p.history) != 4 {
		t.Errorf("repl() history = %v, want 4 entries", p.history)
	}
	if len(hook.Entries) != 1 {
		t.Errorf("repl() diagnostics = %d, want 1", len(hook.Entries))
	}
}
