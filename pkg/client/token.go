package client

import (
	"context"
	"fmt"
	"sync"

	"tableflip.dev/allergy/pkg/fragment"
)

// TokenSource supplies the CSRF token sent with POSTs.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically from configuration.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// pageToken scrapes the token from the dashboard page once and caches it.
type pageToken struct {
	c *Client

	mu    sync.Mutex
	token string
	gen   int64
}

// PageToken returns a TokenSource that reads the token embedded in the
// dashboard page, as the browser page does with input#csrfToken. A failed
// lookup is retried on the next call, and a new session fetches a new token.
func PageToken(c *Client) TokenSource {
	return &pageToken{c: c}
}

func (p *pageToken) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && p.gen == p.c.sessionGen.Load() {
		return p.token, nil
	}
	page, err := p.c.Page(ctx, DashboardPath)
	if err != nil {
		return "", err
	}
	doc, err := fragment.Parse(page)
	if err != nil {
		return "", err
	}
	token := fragment.CSRFToken(doc)
	if token == "" {
		return "", fmt.Errorf("%w on %s", ErrNoToken, DashboardPath)
	}
	p.token = token
	p.gen = p.c.sessionGen.Load()
	return token, nil
}
