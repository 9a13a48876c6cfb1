// SPDX-License-Identifier: MIT
package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type position struct {
	ch   rune
	col  int
	line int
}

func readAll(t *testing.T, r *Reader) (got []position, err error) {
	t.Helper()

	for {
		var ch rune
		if ch, err = r.Read(); err != nil {
			return
		}
		got = append(got, position{ch, r.Position(), r.Line()})
	}
}

func TestReader_Read(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []position
	}{
		{
			name: "empty",
			src:  "",
		},
		{
			name: "single line without break",
			src:  "ab",
			want: []position{{'a', 0, 1}, {'b', 1, 1}, {' ', 2, 1}},
		},
		{
			name: "empty line yields a boundary",
			src:  "a\n\nb\n",
			want: []position{{'a', 0, 1}, {' ', 1, 1}, {' ', 0, 2}, {'b', 0, 3}, {' ', 1, 3}},
		},
		{
			name: "crlf & cr breaks",
			src:  "a\r\nb\rc",
			want: []position{{'a', 0, 1}, {' ', 1, 1}, {'b', 0, 2}, {' ', 1, 2}, {'c', 0, 3}, {' ', 1, 3}},
		},
		{
			name: "columns count runes",
			src:  "λx",
			want: []position{{'λ', 0, 1}, {'x', 1, 1}, {' ', 2, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readAll(t, New(strings.NewReader(tt.src)))
			if err != io.EOF {
				t.Fatalf("Reader.Read() error = %v, want io.EOF", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reader.Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReader_ReadStickyEOF(t *testing.T) {
	r := New(strings.NewReader("a"))
	if _, err := readAll(t, r); err != io.EOF {
		t.Fatalf("Reader.Read() error = %v, want io.EOF", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := r.Read(); err != io.EOF {
			t.Errorf("Reader.Read() after EOF error = %v, want io.EOF", err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReader_ReadError(t *testing.T) {
	r := New(failingReader{})
	if _, err := r.Read(); !errors.Is(err, ErrRead) {
		t.Errorf("Reader.Read() error = %v, want %v", err, ErrRead)
	}
}

func TestReader_LongLine(t *testing.T) {
	r := New(strings.NewReader(strings.Repeat("x", 64)), WithMaxLineLength(16))
	if _, err := readAll(t, r); !errors.Is(err, ErrRead) {
		t.Errorf("Reader.Read() error = %v, want %v", err, ErrRead)
	}
}

func TestReader_Trace(t *testing.T) {
	var trace bytes.Buffer

	r := New(strings.NewReader("first\nsecond\n"), WithTrace(&trace))
	if _, err := readAll(t, r); err != io.EOF {
		t.Fatalf("Reader.Read() error = %v, want io.EOF", err)
	}

	if got, want := trace.String(), "first\nsecond\n"; got != want {
		t.Errorf("trace = %q, want %q", got, want)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.x")
	if err := os.WriteFile(path, []byte("x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if ch, err := r.Read(); err != nil || ch != 'x' {
		t.Errorf("Reader.Read() = %q, %v, want 'x', nil", ch, err)
	}
	if err = r.Close(); err != nil {
		t.Errorf("Reader.Close() error = %v", err)
	}
	if err = r.Close(); err != nil {
		t.Errorf("second Reader.Close() error = %v", err)
	}
	if _, err = r.Read(); err != io.EOF {
		t.Errorf("Reader.Read() after Close error = %v, want io.EOF", err)
	}

	if _, err = Open(filepath.Join(t.TempDir(), "missing.x")); !errors.Is(err, ErrRead) {
		t.Errorf("Open() error = %v, want %v", err, ErrRead)
	}
}

type trackedReader struct {
	io.Reader
	closed bool
}

func (t *trackedReader) Close() error {
	t.closed = true
	return nil
}

func TestReader_CloseBorrowed(t *testing.T) {
	in := &trackedReader{Reader: strings.NewReader("x")}

	r := New(in)
	if _, err := readAll(t, r); err != io.EOF {
		t.Fatalf("Reader.Read() error = %v, want io.EOF", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Reader.Close() error = %v", err)
	}

	if in.closed {
		t.Error("Reader.Close() closed a reader it did not open")
	}
}
