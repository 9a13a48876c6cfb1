// SPDX-License-Identifier: MIT
package lexer

import (
	"context"
	"errors"
	"io"
)

type (
	// Item type holding a lexed Token or the failure that ended the scan.
	Item struct {
		Token *Token
		Err   error
	}
)

// Lex scans the source, sending every Token over the Lexer's channel; use Item to receive them.
//
// The channel is closed at the end of the source, after a failure (sent as an Item with Err) or
// on context cancellation. Lex should be called once, typically in its own goroutine.
//
// The cancellation Item is only sent if the channel has room; once the channel is closed, Err
// reports the failure that ended the scan.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	for {
		if err := ctx.Err(); err != nil {
			l.cancel(err)
			return
		}

		tok, err := l.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.send(ctx, Item{Err: err})
			}

			return
		}

		if !l.send(ctx, Item{Token: tok}) {
			l.cancel(ctx.Err())
			return
		}
	}
}

// Item return a lexed Item from the input.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

func (l *Lexer) send(ctx context.Context, i Item) bool {
	select {
	case l.c <- i:
		return true
	case <-ctx.Done():
		return false
	}
}

// cancel terminates the scan, reporting err if the channel has room.
func (l *Lexer) cancel(err error) {
	l.terminate(err)

	select {
	case l.c <- Item{Err: err}:
	default:
	}
}
