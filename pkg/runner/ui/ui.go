package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/allergy/pkg/tui"
)

// ErrNotTerminal is returned when stdout cannot host the full screen UI.
var ErrNotTerminal = errors.New("ui: stdout is not a terminal")

type UI struct {
	Options tui.Options
	// IsTerminal defaults to checking os.Stdout.
	IsTerminal func() bool
}

func (d *UI) Do(ctx context.Context) error {
	isTerminal := d.IsTerminal
	if isTerminal == nil {
		isTerminal = stdoutIsTerminal
	}
	if !isTerminal() {
		return ErrNotTerminal
	}
	return tui.Run(ctx, d.Options)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
