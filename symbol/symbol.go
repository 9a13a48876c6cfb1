// SPDX-License-Identifier: MIT
package symbol

import (
	"errors"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Symbol is the canonical (text, kind) record for a lexeme.
	//
	// Symbols are only created by a Table; two Symbols from the same Table with equal text are the
	// same pointer.
	Symbol struct {
		text string
		kind Kind
	}

	// Table interns Symbols for a single scan session.
	//
	// A Table is not safe for concurrent use; interning is a check-then-insert sequence. Give every
	// session its own Table.
	Table struct {
		symbols map[string]*Symbol
	}
)

// Symbol errors.
var (
	ErrUnknownKind = errors.New("unknown kind")
)

// Text retrieves the Symbol's canonical text.
func (s *Symbol) Text() string { return s.text }

// Kind retrieves the kind recorded at the Symbol's registration.
func (s *Symbol) Kind() Kind { return s.kind }

func (s *Symbol) String() string { return s.text }

// NewTable instantiates a Table populated with the grammar's reserved words & punctuators.
//
// The grammar is expected to be valid, see [Grammar.Validate].
func NewTable(g Grammar) *Table {
	t := &Table{symbols: make(map[string]*Symbol, len(g.Reserved)+len(g.Punctuators))}

	for _, e := range g.Reserved {
		t.Intern(e.Text, e.Kind)
	}
	for _, e := range g.Punctuators {
		t.Intern(e.Text, e.Kind)
	}

	return t
}

// Intern returns the Symbol registered for text.
//
// An unregistered text is registered with kind, unless kind is Bogus; the lookup then fails
// without modifying the Table. The kind of an existing Symbol is never changed.
func (t *Table) Intern(text string, kind Kind) (s *Symbol, ok bool) {
	if s, ok = t.symbols[text]; ok {
		return
	}

	if kind == Bogus {
		return
	}

	s, ok = &Symbol{text: text, kind: kind}, true
	t.symbols[text] = s

	return
}

// Lookup probes the Table for text without registering it.
func (t *Table) Lookup(text string) (*Symbol, bool) { return t.Intern(text, Bogus) }

// Len is the number of registered Symbols.
func (t *Table) Len() int { return len(t.symbols) }

// Symbols lists the registered Symbols ordered by text.
func (t *Table) Symbols() (list []*Symbol) {
	keys := maps.Keys(t.symbols)
	slices.Sort(keys)

	list = make([]*Symbol, len(keys))
	for index, key := range keys {
		list[index] = t.symbols[key]
	}

	return
}
