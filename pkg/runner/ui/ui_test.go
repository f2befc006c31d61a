package ui

import (
	"context"
	"errors"
	"testing"
)

func TestRefusesWithoutTerminal(t *testing.T) {
	u := &UI{IsTerminal: func() bool { return false }}
	if err := u.Do(context.Background()); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("Do() = %v, want ErrNotTerminal", err)
	}
}
