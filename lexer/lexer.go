// SPDX-License-Identifier: MIT
package lexer

import (
	"errors"
	"io"
	"unicode"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/source"
	"gitlab.com/fisherprime/xlex/symbol"
)

type (
	// RuneSource supplies the runes a Lexer scans; see [source.Reader].
	RuneSource interface {
		// Read returns the next rune or io.EOF once the source is exhausted.
		Read() (rune, error)
		// Position obtains the column of the rune last read.
		Position() int
		// Line obtains the line number of the rune last read.
		Line() int
		Close() error
	}

	// ValidationFunction type for functions that validate rune identities
	ValidationFunction func(rune) bool

	// Lexer converts a RuneSource into a stream of Tokens.
	//
	// A Lexer is a single scan session & is not safe for concurrent use.
	Lexer struct {
		debug  bool
		logger logrus.FieldLogger
		table  *symbol.Table

		source RuneSource

		// ch is the next rune to process; the only lookahead.
		ch rune
		// pos & line locate ch in the source.
		pos, line int
		// readErr is set once the source fails, ch is invalid from then on.
		readErr error

		// buffer holds the runes of the lexeme being scanned.
		buffer []rune
		// start, end & startLine locate the lexeme being scanned.
		start, end, startLine int

		// done is set on the first failure; a done Lexer only yields io.EOF.
		done bool
		// err is the first failure other than io.EOF.
		err error

		// c is a channel for communicating lexed Items, see Lex.
		c chan Item
	}
)

const (
	defBufferSize = 16

	// invalidRune stands in for ch once the source is exhausted.
	invalidRune rune = -1
)

// New creates a Lexer scanning src.
//
// The first rune is read immediately; src is closed once the token stream ends.
func New(src RuneSource, opts ...Option) *Lexer { return newLexer(newConfig(opts), src) }

// FromReader creates a Lexer scanning r.
//
// r remains owned by the caller and is not closed at the end of the token stream.
func FromReader(r io.Reader, opts ...Option) *Lexer {
	cfg := newConfig(opts)
	return newLexer(cfg, source.New(r, sourceOptions(cfg)...))
}

// Open creates a Lexer scanning the file at path.
func Open(path string, opts ...Option) (l *Lexer, err error) {
	cfg := newConfig(opts)

	src, err := source.Open(path, sourceOptions(cfg)...)
	if err != nil {
		return
	}
	l = newLexer(cfg, src)

	return
}

func newConfig(opts []Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Validate()

	return cfg
}

func sourceOptions(cfg *Config) []source.Option {
	opts := []source.Option{source.WithLogger(cfg.Logger), source.WithDebug(cfg.Debug)}
	if cfg.Trace != nil {
		opts = append(opts, source.WithTrace(cfg.Trace))
	}

	return opts
}

func newLexer(cfg *Config, src RuneSource) *Lexer {
	l := &Lexer{
		debug:  cfg.Debug,
		logger: cfg.Logger,
		table:  cfg.Table,
		source: src,
		buffer: make([]rune, 0, defBufferSize),
		c:      make(chan Item, defBufferSize),
	}
	l.advance()

	return l
}

// Table obtains the Lexer's symbol Table.
func (l *Lexer) Table() *symbol.Table { return l.table }

// Logger obtains the logger.
func (l *Lexer) Logger() logrus.FieldLogger { return l.logger }

// Err obtains the failure that terminated the token stream, nil if the source was exhausted.
func (l *Lexer) Err() error { return l.err }

// Next returns the next Token.
//
// io.EOF is returned at the end of the source; a *ScanError wrapping ErrMalformedLiteral or
// ErrIllegalCharacter is returned for invalid input. Any failure ends the stream, subsequent calls
// return io.EOF.
func (l *Lexer) Next() (tok *Token, err error) {
	if l.done {
		err = io.EOF
		return
	}

	if tok, err = l.scan(); err != nil {
		l.terminate(err)
	}

	return
}

// Tokens drains the Lexer, returning the Tokens scanned & the failure that ended the scan (if
// not the end of the source).
func (l *Lexer) Tokens() (list []*Token, err error) {
	for {
		tok, e := l.Next()
		if e != nil {
			if !errors.Is(e, io.EOF) {
				err = e
			}

			return
		}
		list = append(list, tok)
	}
}

// terminate marks the Lexer done & releases the source.
func (l *Lexer) terminate(err error) {
	if l.done {
		return
	}
	l.done = true

	if !errors.Is(err, io.EOF) {
		l.err = err
	}

	if cErr := l.source.Close(); cErr != nil {
		l.logger.Warnf("lexer: close source: %v", cErr)
	}
}

// scan skips whitespace & comments, dispatching on the current rune.
func (l *Lexer) scan() (tok *Token, err error) {
	for {
		l.skipWhile(isSpace)
		if l.readErr != nil {
			err = l.readErr
			return
		}

		l.buffer = l.buffer[:0]
		l.start, l.end, l.startLine = l.pos, l.pos, l.line

		var comment bool
		switch ch := l.ch; {
		case symbol.IsIdentStart(ch):
			tok = l.lexIdentifier()
		case isDigit(ch):
			tok, err = l.lexNumber()
		case ch == '.':
			tok, comment, err = l.lexLeadingDot()
		case ch == '\'':
			tok, err = l.lexChar()
		default:
			tok, comment, err = l.lexOperator()
		}

		if !comment {
			return
		}
		l.skipLine()
	}
}

// lexIdentifier scans an identifier or reserved word.
//
// Reserved words are registered beforehand, so interning the text as an Identifier yields them.
func (l *Lexer) lexIdentifier() *Token {
	l.acceptWhile(symbol.IsIdentPart)
	return l.emit(symbol.Identifier)
}

// lexNumber scans an integer, float or scientific notation literal.
func (l *Lexer) lexNumber() (tok *Token, err error) {
	l.acceptWhile(isDigit)
	if l.ch != '.' {
		tok = l.emit(symbol.Integer)
		return
	}
	l.accept()

	// "N." is a float with an empty fraction.
	if !isDigit(l.ch) {
		tok = l.emit(symbol.Float)
		return
	}
	l.acceptWhile(isDigit)

	if l.ch != 'e' && l.ch != 'E' {
		tok = l.emit(symbol.Float)
		return
	}
	l.accept()

	if l.ch == '+' || l.ch == '-' {
		l.accept()
	}
	if !isDigit(l.ch) {
		err = l.fail(ErrMalformedLiteral)
		return
	}
	l.acceptWhile(isDigit)
	tok = l.emit(symbol.Scientific)

	return
}

// lexLeadingDot scans a float starting with a '.'.
//
// Without a digit after the '.' the text can only be a punctuator registered by the grammar.
func (l *Lexer) lexLeadingDot() (tok *Token, comment bool, err error) {
	l.accept()
	if isDigit(l.ch) {
		l.acceptWhile(isDigit)
		tok = l.emit(symbol.Float)

		return
	}

	var ok bool
	if tok, comment, ok = l.operator(); !ok {
		err = l.fail(ErrMalformedLiteral)
	}

	return
}

// lexChar scans a quoted single rune.
func (l *Lexer) lexChar() (tok *Token, err error) {
	l.accept()
	if l.readErr != nil {
		err = l.fail(ErrMalformedLiteral)
		return
	}
	l.accept()

	if l.ch != '\'' {
		err = l.fail(ErrMalformedLiteral)
		return
	}
	l.accept()
	tok = l.emit(symbol.Character)

	return
}

// lexOperator scans a one or two rune punctuator.
func (l *Lexer) lexOperator() (tok *Token, comment bool, err error) {
	l.accept()

	var ok bool
	if tok, comment, ok = l.operator(); !ok {
		err = l.fail(ErrIllegalCharacter)
	}

	return
}

// operator resolves the punctuator starting with the accepted rune(s), preferring the two rune
// match formed with ch.
//
// On a one rune match ch is kept as the next rune to process.
func (l *Lexer) operator() (tok *Token, comment, ok bool) {
	var sym *symbol.Symbol

	if l.readErr == nil {
		if sym, ok = l.table.Lookup(string(l.buffer) + string(l.ch)); ok {
			l.accept()
		}
	}
	if !ok {
		if sym, ok = l.table.Lookup(string(l.buffer)); !ok {
			return
		}
	}

	if sym.Kind() == symbol.Comment {
		comment = true
		return
	}
	tok = l.token(sym)

	return
}

// skipLine discards the rest of the physical line holding the lexeme.
func (l *Lexer) skipLine() {
	if l.debug {
		l.logger.Debugf("lexer skip comment: line %d from column %d", l.startLine, l.start)
	}

	for l.readErr == nil && l.line == l.startLine {
		l.advance()
	}
}

// advance reads the next rune into ch.
func (l *Lexer) advance() {
	if l.readErr != nil {
		return
	}

	ch, err := l.source.Read()
	if err != nil {
		l.readErr, l.ch = err, invalidRune
		return
	}
	l.ch, l.pos, l.line = ch, l.source.Position(), l.source.Line()
}

// accept appends ch to the lexeme & reads the next rune.
func (l *Lexer) accept() {
	l.buffer = append(l.buffer, l.ch)
	l.end = l.pos
	l.advance()
}

// acceptWhile consumes runes while condition is true.
func (l *Lexer) acceptWhile(fn ValidationFunction) {
	for l.readErr == nil && fn(l.ch) {
		l.accept()
	}
}

// skipWhile discards runes while condition is true.
func (l *Lexer) skipWhile(fn ValidationFunction) {
	for l.readErr == nil && fn(l.ch) {
		l.advance()
	}
}

// emit interns the lexeme & creates its Token.
func (l *Lexer) emit(kind symbol.Kind) *Token {
	sym, _ := l.table.Intern(string(l.buffer), kind)
	return l.token(sym)
}

func (l *Lexer) token(sym *symbol.Symbol) *Token {
	tok := NewToken(l.start, l.end, l.startLine, sym)
	if l.debug {
		// Debug operation makes this operation un-inlinable.
		l.logger.Debug("lexer emit: ", spew.Sdump(tok))
	}

	return tok
}

// fail logs a diagnostic for the lexeme & returns its ScanError.
func (l *Lexer) fail(cause error) error {
	err := &ScanError{
		Err:    cause,
		Text:   string(l.buffer),
		Line:   l.startLine,
		Column: l.start,
	}

	entry := l.logger.WithFields(logrus.Fields{
		"line":   err.Line,
		"column": err.Column,
		"text":   err.Text,
	})
	if errors.Is(cause, ErrIllegalCharacter) {
		entry.Error(cause)
	} else {
		entry.Warn(cause)
	}

	return err
}

// isSpace reports whether r separates lexemes.
//
// Control separators & the Unicode space, line & paragraph separators qualify; the no-break
// spaces and U+0085 don't.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	case '\u00a0', '\u2007', '\u202f':
		return false
	}

	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}

// isDigit return true for a decimal digit.
func isDigit(r rune) bool { return unicode.IsDigit(r) }
