// SPDX-License-Identifier: MIT

// Package batch scans several source files concurrently.
//
// Every file is scanned by its own Lexer with its own symbol.Table, the sessions share nothing but
// the immutable grammar.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/xlex/lexer"
	"gitlab.com/fisherprime/xlex/symbol"
)

type (
	// Result holds the outcome of scanning one file.
	Result struct {
		Path   string
		Tokens []*lexer.Token
		// Err is the failure that ended the scan, nil if the file was exhausted.
		Err error
	}

	// Scanner scans files on a worker pool.
	Scanner struct {
		debug    bool
		logger   logrus.FieldLogger
		grammar  symbol.Grammar
		poolSize int

		lexerOpts []lexer.Option
	}

	// Option defines the Scanner functional option type.
	Option func(*Scanner)
)

// Batch errors.
var (
	ErrPoolSubmit = errors.New("failed to schedule scan")
	ErrScan       = errors.New("scan failed")
)

// New instantiates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		logger:   logrus.New(),
		grammar:  symbol.DefaultGrammar(),
		poolSize: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(s *Scanner) { s.debug = debug } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(s *Scanner) { s.logger = logger } }

// WithGrammar configures the grammar every file's Table is populated with.
func WithGrammar(g symbol.Grammar) Option { return func(s *Scanner) { s.grammar = g } }

// WithPoolSize configures the number of concurrent scans.
func WithPoolSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithLexerOptions configures additional options for every file's Lexer.
//
// A lexer.WithTable option is ignored, sharing a Table between sessions is unsafe.
func WithLexerOptions(opts ...lexer.Option) Option {
	return func(s *Scanner) { s.lexerOpts = append(s.lexerOpts, opts...) }
}

// ScanFiles scans paths with a default Scanner configured by opts.
func ScanFiles(ctx context.Context, paths []string, opts ...Option) ([]Result, error) {
	return New(opts...).Scan(ctx, paths)
}

// Scan scans every path, returning the Results in the order of paths.
//
// The returned error joins the failure of every file; the Results remain valid.
func (s *Scanner) Scan(ctx context.Context, paths []string) (results []Result, err error) {
	results = make([]Result, len(paths))
	for index, path := range paths {
		results[index].Path = path
	}
	if len(paths) < 1 {
		return
	}

	pool, err := ants.NewPool(s.poolSize, ants.WithLogger(s.logger), ants.WithPanicHandler(func(r interface{}) {
		s.logger.Errorf("batch: scan panicked: %v", r)
	}))
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrPoolSubmit, err)
		return
	}
	defer pool.Release()

	wg := new(sync.WaitGroup)

	for index := range paths {
		if err = ctx.Err(); err != nil {
			cancelFrom(results, index, err)
			break
		}

		result := &results[index]

		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			s.scan(ctx, result)
		}); err != nil {
			wg.Done()
			result.Err = fmt.Errorf("%w: %w", ErrPoolSubmit, err)
		}
	}
	wg.Wait()

	err = joinErrors(results)

	return
}

// scan fills result with the Tokens of its file.
func (s *Scanner) scan(ctx context.Context, result *Result) {
	if result.Err = ctx.Err(); result.Err != nil {
		return
	}

	logger := s.logger.WithField("path", result.Path)
	if s.debug {
		logger.Debug("batch: scanning")
	}

	opts := make([]lexer.Option, 0, len(s.lexerOpts)+3)
	opts = append(opts, s.lexerOpts...)
	opts = append(opts, lexer.WithLogger(logger), lexer.WithDebug(s.debug), lexer.WithGrammar(s.grammar))
	// Overrides a lexer.WithTable among s.lexerOpts.
	opts = append(opts, lexer.WithTable(nil))

	l, err := lexer.Open(result.Path, opts...)
	if err != nil {
		result.Err = err
		return
	}

	go l.Lex(ctx)
	collect(l, result)

	if s.debug {
		logger.Debugf("batch: %d tokens, table size %d", len(result.Tokens), l.Table().Len())
	}
}

// collect drains the Items of a running Lex into result.
func collect(l *lexer.Lexer, result *Result) {
	for {
		item, ok := l.Item()
		if !ok {
			break
		}
		if item.Err != nil {
			result.Err = item.Err
			continue
		}
		result.Tokens = append(result.Tokens, item.Token)
	}

	// A cancellation Item is dropped when the channel is full.
	if result.Err == nil {
		result.Err = l.Err()
	}
}

// cancelFrom marks the unscheduled results as cancelled.
func cancelFrom(results []Result, index int, err error) {
	for ; index < len(results); index++ {
		results[index].Err = err
	}
}

func joinErrors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrScan, r.Path, r.Err))
		}
	}

	return errors.Join(errs...)
}
