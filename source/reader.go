// SPDX-License-Identifier: MIT
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type (
	// Reader supplies runes one at a time from a line buffered source.
	//
	// An empty or exhausted line is reported as a single ' ', so the end of a line always acts as
	// a separator for the caller.
	Reader struct {
		debug  bool
		logger logrus.FieldLogger
		trace  io.Writer

		scanner *bufio.Scanner
		closer  io.Closer

		// line holds the runes of the current physical line.
		line []rune
		// lineNo is the 1-based number of the current physical line.
		lineNo int
		// pos is the 0-based column of the rune last returned.
		pos int

		// priorEndLine marks the line as consumed, the next Read loads a new one.
		priorEndLine bool

		maxLineLength int

		// err is sticky, once set every Read returns it.
		err error
	}

	// Option defines the Reader functional option type.
	Option func(*Reader)
)

const (
	// LineBoundary is the rune returned for an empty or exhausted line.
	LineBoundary = ' '

	defMaxLineLength = 1024 * 1024
	initBufferSize   = 4096
)

// Source errors.
var (
	ErrRead = errors.New("failed to read source")
)

// New instantiates a Reader consuming r.
//
// r remains owned by the caller; Close does not close it.
func New(r io.Reader, opts ...Option) *Reader {
	s := &Reader{
		logger:        logrus.New(),
		priorEndLine:  true,
		maxLineLength: defMaxLineLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	// The scanner's limit is the larger of its max & the initial buffer's capacity.
	bufSize := initBufferSize
	if bufSize > s.maxLineLength {
		bufSize = s.maxLineLength
	}

	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, bufSize), s.maxLineLength)
	s.scanner.Split(scanLines)

	return s
}

// Open instantiates a Reader for the file at path.
//
// The file is closed by the Reader's Close.
func Open(path string, opts ...Option) (r *Reader, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRead, err)
		return
	}
	r = New(f, opts...)
	r.closer = f

	return
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(r *Reader) { r.debug = debug } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(r *Reader) { r.logger = logger } }

// WithTrace echoes every physical line to w as it is consumed.
func WithTrace(w io.Writer) Option { return func(r *Reader) { r.trace = w } }

// WithMaxLineLength configures the longest line (in bytes) the Reader accepts.
func WithMaxLineLength(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineLength = n
		}
	}
}

// Read returns the next rune.
//
// io.EOF is returned once the input is exhausted; an I/O failure is wrapped in ErrRead.
func (r *Reader) Read() (ch rune, err error) {
	if r.err != nil {
		err = r.err
		return
	}

	if r.priorEndLine {
		if err = r.nextLine(); err != nil {
			return
		}
	}

	r.pos++
	if r.pos >= len(r.line) {
		r.priorEndLine = true
		ch = LineBoundary

		return
	}
	ch = r.line[r.pos]

	return
}

// nextLine loads the next physical line.
func (r *Reader) nextLine() (err error) {
	if !r.scanner.Scan() {
		if err = r.scanner.Err(); err != nil {
			err = fmt.Errorf("%w: line %d: %w", ErrRead, r.lineNo+1, err)
		} else {
			err = io.EOF
		}
		r.err, r.line = err, nil

		return
	}

	r.lineNo++
	r.pos = -1
	r.priorEndLine = false
	r.line = bytes.Runes(r.scanner.Bytes())

	if r.trace != nil {
		fmt.Fprintln(r.trace, string(r.line))
	}
	if r.debug {
		r.logger.Debugf("source line %d: %d runes", r.lineNo, len(r.line))
	}

	return
}

// Position obtains the column of the rune last returned.
func (r *Reader) Position() int { return r.pos }

// Line obtains the line number of the rune last returned.
func (r *Reader) Line() int { return r.lineNo }

// Close ends the Reader, closing the file opened by Open.
//
// Subsequent calls are no-ops.
func (r *Reader) Close() (err error) {
	if r.err == nil {
		r.err = io.EOF
	}
	if r.closer == nil {
		return
	}

	err, r.closer = r.closer.Close(), nil

	return
}

// scanLines is a bufio.SplitFunc that accepts "\n", "\r\n" & "\r" line breaks.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		switch {
		case data[i] == '\n':
			return i + 1, data[:i], nil
		case i+1 < len(data):
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		case !atEOF:
			// A "\r" at the end of the buffer may be followed by a "\n"; request more data.
			return
		default:
			return i + 1, data[:i], nil
		}
	}

	if atEOF {
		return len(data), data, nil
	}

	return
}
