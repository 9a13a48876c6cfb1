// SPDX-License-Identifier: MIT
package lexer

import (
	"errors"
	"fmt"
)

type (
	// ScanError describes the failure that terminated a scan.
	ScanError struct {
		Err    error
		Text   string
		Line   int
		Column int
	}
)

// Lexing errors.
//
// Input exhaustion is reported as io.EOF.
var (
	ErrMalformedLiteral = errors.New("malformed literal")
	ErrIllegalCharacter = errors.New("illegal character")
)

func (e *ScanError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v: %q", e.Line, e.Column, e.Err, e.Text)
}

func (e *ScanError) Unwrap() error { return e.Err }
