// SPDX-License-Identifier: MIT
package lexer

import (
	"io"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/symbol"
)

type (
	// Config defines configuration options for the Lexer's operations.
	Config struct {
		Logger logrus.FieldLogger
		Debug  bool

		// Grammar populates the Lexer's Table when Table is nil.
		Grammar *symbol.Grammar
		// Table is the session's registry; it must not be shared with a concurrent session.
		Table *symbol.Table

		// Trace receives an echo of every source line consumed by a Lexer built with Open or
		// FromReader.
		Trace io.Writer
	}
)

// DefaultConfig obtains the Lexer's default Config.
func DefaultConfig() *Config {
	g := symbol.DefaultGrammar()

	return &Config{
		Logger:  logrus.New(),
		Grammar: &g,
	}
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Table != nil {
		return
	}
	if c.Grammar == nil {
		g := symbol.DefaultGrammar()
		c.Grammar = &g
	}
	c.Table = symbol.NewTable(*c.Grammar)
}
