// SPDX-License-Identifier: MIT
package symbol

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

type (
	// Entry maps a fixed spelling onto its Kind.
	Entry struct {
		Text string `json:"text"`
		Kind Kind   `json:"kind"`
	}

	// Grammar is the table of reserved words & punctuators a Table is populated with.
	Grammar struct {
		Version     string  `json:"version,omitempty"`
		Reserved    []Entry `json:"reserved"`
		Punctuators []Entry `json:"punctuators"`
	}
)

// GrammarVersion identifies the table returned by DefaultGrammar.
const GrammarVersion = "x-1.2"

// maxPunctuatorLen is the longest punctuator the lexer can resolve, it only looks one rune ahead.
const maxPunctuatorLen = 2

// Grammar errors.
var (
	ErrInvalidGrammar = errors.New("invalid grammar")
)

// DefaultGrammar obtains the reserved words & punctuators of the X language.
func DefaultGrammar() Grammar {
	return Grammar{
		Version: GrammarVersion,
		Reserved: []Entry{
			{"program", Program},
			{"int", IntType},
			{"boolean", BoolType},
			{"float", FloatType},
			{"char", CharType},
			{"if", If},
			{"then", Then},
			{"else", Else},
			{"while", While},
			{"do", Do},
			{"function", Function},
			{"return", Return},
		},
		Punctuators: []Entry{
			{"{", LeftBrace},
			{"}", RightBrace},
			{"(", LeftParen},
			{")", RightParen},
			{",", Comma},
			{";", Semicolon},
			{"=", Assign},
			{"==", Equal},
			{"!=", NotEqual},
			{"<", Less},
			{"<=", LessEqual},
			{">", Greater},
			{">=", GreaterEqual},
			{"+", Plus},
			{"-", Minus},
			{"|", Or},
			{"&", And},
			{"*", Multiply},
			{"/", Divide},
			{"//", Comment},
		},
	}
}

// LoadGrammar decodes a JSON grammar & validates it.
func LoadGrammar(r io.Reader) (g Grammar, err error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err = dec.Decode(&g); err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidGrammar, err)
		return
	}
	err = g.Validate()

	return
}

// Validate checks the Grammar's entries.
//
// Reserved words must be spelled like identifiers & carry a reserved kind; punctuators must be
// at most two runes & carry an operator kind. No spelling may appear twice.
func (g *Grammar) Validate() error {
	seen := make(map[string]struct{}, len(g.Reserved)+len(g.Punctuators))

	check := func(e Entry, class string, validKind func(Kind) bool, validText func(string) bool) error {
		if e.Text == "" {
			return fmt.Errorf("%w: empty %s spelling", ErrInvalidGrammar, class)
		}
		if _, ok := seen[e.Text]; ok {
			return fmt.Errorf("%w: duplicate spelling %q", ErrInvalidGrammar, e.Text)
		}
		if !validKind(e.Kind) {
			return fmt.Errorf("%w: %s %q has kind %v", ErrInvalidGrammar, class, e.Text, e.Kind)
		}
		if !validText(e.Text) {
			return fmt.Errorf("%w: malformed %s %q", ErrInvalidGrammar, class, e.Text)
		}
		seen[e.Text] = struct{}{}

		return nil
	}

	for _, e := range g.Reserved {
		if err := check(e, "reserved word", Kind.IsReserved, isWord); err != nil {
			return err
		}
	}
	for _, e := range g.Punctuators {
		if err := check(e, "punctuator", Kind.IsOperator, isPunctuator); err != nil {
			return err
		}
	}

	return nil
}

// IsIdentStart reports whether r may start an identifier.
func IsIdentStart(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }

// IsIdentPart reports whether r may continue an identifier.
func IsIdentPart(r rune) bool { return IsIdentStart(r) || unicode.IsDigit(r) }

func isWord(s string) bool {
	for index, r := range s {
		if index == 0 && !IsIdentStart(r) || !IsIdentPart(r) {
			return false
		}
	}

	return true
}

func isPunctuator(s string) bool {
	if utf8.RuneCountInString(s) > maxPunctuatorLen {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || IsIdentPart(r) || r == '\'' {
			return false
		}
	}

	return true
}
