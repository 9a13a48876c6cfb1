// SPDX-License-Identifier: MIT
package lexer

import (
	"io"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/symbol"
)

type (
	// Option defines the Lexer functional option type.
	Option func(*Config)
)

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(c *Config) { c.Debug = debug } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(c *Config) { c.Logger = logger } }

// WithGrammar configures the grammar a fresh Table is populated with.
func WithGrammar(g symbol.Grammar) Option { return func(c *Config) { c.Grammar = &g } }

// WithTable configures a pre-populated Table, taking precedence over WithGrammar.
func WithTable(t *symbol.Table) Option { return func(c *Config) { c.Table = t } }

// WithTrace configures the source line trace.
func WithTrace(w io.Writer) Option { return func(c *Config) { c.Trace = w } }

// WithConfig replaces the Config wholesale.
func WithConfig(cfg Config) Option { return func(c *Config) { *c = cfg } }
