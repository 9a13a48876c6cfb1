// SPDX-License-Identifier: MIT
package lexer

import (
	"encoding/json"

	"gitlab.com/fisherprime/xlex/symbol"
)

type (
	// Token is a positioned occurrence of a Symbol.
	Token struct {
		left   int
		right  int
		line   int
		symbol *symbol.Symbol
	}

	// tokenJSON is Token's wire shape for JSON output.
	tokenJSON struct {
		Kind  symbol.Kind `json:"kind"`
		Text  string      `json:"text"`
		Left  int         `json:"left"`
		Right int         `json:"right"`
		Line  int         `json:"line"`
	}
)

// NewToken instantiates a Token spanning columns left..right of a line.
func NewToken(left, right, line int, sym *symbol.Symbol) *Token {
	return &Token{left: left, right: right, line: line, symbol: sym}
}

// Left retrieves the column of the Token's first rune.
func (t *Token) Left() int { return t.left }

// Right retrieves the column of the Token's last rune.
func (t *Token) Right() int { return t.right }

// Line retrieves the Token's line number.
func (t *Token) Line() int { return t.line }

// Symbol retrieves the Token's interned Symbol.
func (t *Token) Symbol() *symbol.Symbol { return t.symbol }

// Kind retrieves the Token's kind.
func (t *Token) Kind() symbol.Kind { return t.symbol.Kind() }

// Text retrieves the Token's lexeme.
func (t *Token) Text() string { return t.symbol.Text() }

func (t *Token) String() string { return t.symbol.Text() }

// MarshalJSON implements json.Marshaler.
func (t *Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenJSON{
		Kind:  t.Kind(),
		Text:  t.Text(),
		Left:  t.left,
		Right: t.right,
		Line:  t.line,
	})
}
