// SPDX-License-Identifier: MIT
package symbol

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type (
	// Kind classifies a Symbol.
	Kind int
)

// Kinds recognized by the lexer.
//
// The unexported markers delimit the literal, reserved word & operator ranges.
const (
	// Bogus is the lookup-only kind; interning with it never registers a Symbol.
	Bogus Kind = iota
	// EOF signals the end of the token stream.
	EOF

	literalBeg
	Identifier
	Integer
	Float
	Scientific
	Character
	literalEnd

	reservedBeg
	Program
	IntType
	BoolType
	FloatType
	CharType
	If
	Then
	Else
	While
	Do
	Function
	Return
	reservedEnd

	operatorBeg
	LeftBrace
	RightBrace
	LeftParen
	RightParen
	Comma
	Semicolon
	Assign
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	Plus
	Minus
	Or
	And
	Multiply
	Divide
	Comment
	operatorEnd
)

var kindNames = [...]string{
	Bogus: "Bogus",
	EOF:   "EOF",

	Identifier: "Identifier",
	Integer:    "Integer",
	Float:      "Float",
	Scientific: "Scientific",
	Character:  "Character",

	Program:   "Program",
	IntType:   "IntType",
	BoolType:  "BoolType",
	FloatType: "FloatType",
	CharType:  "CharType",
	If:        "If",
	Then:      "Then",
	Else:      "Else",
	While:     "While",
	Do:        "Do",
	Function:  "Function",
	Return:    "Return",

	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	Comma:        "Comma",
	Semicolon:    "Semicolon",
	Assign:       "Assign",
	Equal:        "Equal",
	NotEqual:     "NotEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Plus:         "Plus",
	Minus:        "Minus",
	Or:           "Or",
	And:          "And",
	Multiply:     "Multiply",
	Divide:       "Divide",
	Comment:      "Comment",
}

// kindsByName is the reverse of kindNames, used to decode grammar files.
var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name != "" {
			m[name] = Kind(k)
		}
	}

	return m
}()

// inRange reports whether lo < v < hi.
func inRange[T constraints.Ordered](v, lo, hi T) bool { return lo < v && v < hi }

// IsLiteral reports whether the Kind is an identifier or a literal.
func (k Kind) IsLiteral() bool { return inRange(k, literalBeg, literalEnd) }

// IsReserved reports whether the Kind is a reserved word.
func (k Kind) IsReserved() bool { return inRange(k, reservedBeg, reservedEnd) }

// IsOperator reports whether the Kind is an operator or separator.
func (k Kind) IsOperator() bool { return inRange(k, operatorBeg, operatorEnd) }

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindsByName[k.String()]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, ok := kindsByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, text)
	}
	*k = kind

	return nil
}
