// Package ui draws the zap wall on the terminal's alternate screen
// buffer: a fixed number of rolling message slots, an always-visible
// satoshi total and an optional LNURL-pay QR code.
package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/massmux/ZapWall/internal/wall"
	"golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[?25l"
	leaveAltScreen = "\x1b[?1049l\x1b[?25h"
	clearScreen    = "\x1b[2J\x1b[H"

	keyEscape = 27
	keyCtrlC  = 3
)

// FiatSource converts a sat amount at the current exchange rate.
type FiatSource interface {
	FiatValue(sats int64) (float64, bool)
}

type Wall struct {
	board    *wall.Board
	updates  <-chan wall.Message
	qr       string
	fiat     FiatSource
	currency string
}

type WallOption func(*Wall)

// WithFiat shows the total's approximate fiat value next to the sat
// counter.
func WithFiat(source FiatSource, currency string) WallOption {
	return func(w *Wall) {
		w.fiat = source
		w.currency = currency
	}
}

func NewWall(board *wall.Board, updates <-chan wall.Message, qr string, option ...WallOption) *Wall {
	w := &Wall{
		board:   board,
		updates: updates,
		qr:      qr,
	}
	for _, opt := range option {
		opt(w)
	}
	return w
}

// Run blocks until the exit key or ctx cancellation. It owns all
// display mutations: it is the sole consumer of the updates channel
// and the sole writer of board state, so cross-goroutine updates are
// marshaled here instead of mutating the display from the listener.
func (w *Wall) Run(ctx context.Context, cancel context.CancelFunc) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("display initialization failed: %w", err)
	}
	defer term.Restore(fd, oldState)
	fmt.Fprint(os.Stdout, enterAltScreen)
	defer fmt.Fprint(os.Stdout, leaveAltScreen)

	keys := make(chan byte, 8)
	go readKeys(keys)

	// periodic redraw keeps the fiat value fresh between zaps
	refresh := time.NewTicker(30 * time.Second)
	defer refresh.Stop()

	w.redraw()
	for {
		select {
		case msg := <-w.updates:
			w.board.Add(msg)
			w.redraw()
		case <-refresh.C:
			if w.fiat != nil {
				w.redraw()
			}
		case key := <-keys:
			if key == keyEscape || key == keyCtrlC || key == 'q' {
				cancel()
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func readKeys(keys chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n > 0 {
			keys <- buf[0]
		}
	}
}

func (w *Wall) redraw() {
	fiat := ""
	if w.fiat != nil {
		if value, ok := w.fiat.FiatValue(w.board.TotalSats()); ok {
			fiat = fmt.Sprintf("≈ %.2f %s", value, w.currency)
		}
	}
	fmt.Fprint(os.Stdout, clearScreen)
	fmt.Fprint(os.Stdout, renderFrame(w.board.Messages(), w.board.Capacity(), w.board.TotalSats(), fiat, w.qr))
}
