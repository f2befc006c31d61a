package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/config"
	"tableflip.dev/allergy/pkg/store"
)

type Info struct {
	Config *config.Config
	// Persistence is the dev server store. Optional.
	Persistence store.Persistence
	Now         func() time.Time
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	w := n.Out
	if w == nil {
		w = color.Output
	}
	if n.Config == nil {
		return fmt.Errorf("info: no configuration loaded")
	}

	if override := os.Getenv("ALLERGY_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(w, "ALLERGY_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(w, "ALLERGY_CONFIG_PATH env var not set")
	}

	c := n.Config
	file := c.File
	if file == "" {
		file = "(none, using defaults)"
	}
	b := color.New(color.Bold)
	_, _ = b.Fprintln(w, "Config")
	_, _ = fmt.Fprintf(w, "  file:          %s\n", file)
	_, _ = fmt.Fprintf(w, "  server:        %s\n", c.Server)
	_, _ = fmt.Fprintf(w, "  login:         %s\n", login(c))
	_, _ = fmt.Fprintf(w, "  settle delay:  %s\n", c.SettleDelay)
	_, _ = fmt.Fprintf(w, "  discard stale: %t\n", c.DiscardStale)
	_, _ = fmt.Fprintf(w, "  log level:     %s\n", c.Log.Level)
	if c.Log.File != "" {
		_, _ = fmt.Fprintf(w, "  log file:      %s\n", c.Log.File)
	}
	_, _ = fmt.Fprintf(w, "  devserver:     %s (store %s)\n", c.DevServer.Addr, c.DevServer.BasePath())

	if n.Persistence == nil {
		return nil
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	today := calendar.DateOf(now())
	_, _ = b.Fprintf(w, "Records for %s\n", today)
	records := n.Persistence.List(ctx, today)
	if len(records) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", "no records")
	}
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", r.Symptom.DisplayName(), r.Intensity)
	}
	return nil
}

func login(c *config.Config) string {
	switch {
	case c.Username != "":
		return "form login as " + c.Username
	case c.SessionCookie != "":
		return "session cookie"
	default:
		return "none"
	}
}
