// Package client talks to the symptom calendar service the way the browser
// page does: HTMX-flavoured requests that answer with HTML fragments for the
// date-info region.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/events"
	"tableflip.dev/allergy/pkg/symptom"
)

const (
	addPath       = "/add_symptom/"
	deletePath    = "/delete_symptom/"
	DashboardPath = "/dashboard/"

	csrfHeader = "X-CSRFToken"
	csrfCookie = "csrftoken"
)

// Response is a fragment answer.
type Response struct {
	Body   string
	Status int
	// Triggers are the client events named by the HX-Trigger header, in
	// header order.
	Triggers []string
}

// StatusError is returned for non-2xx answers and for redirects to the
// login page.
type StatusError struct {
	Op     string
	Status int
	Body   string
	// Location is the redirect target, if the answer was a redirect.
	Location string
	// Err classifies the answer, e.g. ErrLoginRequired.
	Err error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (server returned %d to %s)", e.Op, e.Err, e.Status, e.Location)
	}
	return fmt.Sprintf("%s: server returned %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

func (e *StatusError) Unwrap() error { return e.Err }

// ErrNoToken is returned when a mutating request has no CSRF token.
var ErrNoToken = errors.New("no csrf token")

// Client is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	token  TokenSource
	logger *zap.Logger

	creds   *credentials
	session string

	authMu sync.Mutex
	authed bool
	// sessionGen changes whenever the session does. Cached CSRF tokens
	// from an older session are stale.
	sessionGen atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The default has no
// timeout; requests are bounded by their context only. The client is
// copied, and given a cookie jar and a login redirect check unless it has
// its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the CSRF token source used for POSTs.
func WithToken(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: server url %q must be http or https", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http, err = guard(c.http); err != nil {
		return nil, err
	}
	if c.session != "" {
		c.http.Jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: c.session, Path: "/"}})
	}
	if c.token == nil {
		c.token = PageToken(c)
	}
	c.logger = c.logger.Named("client")
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

// DateInfo fetches the fragment for date.
func (c *Client) DateInfo(ctx context.Context, date calendar.Date) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, date.Path(), nil)
	if err != nil {
		return nil, err
	}
	return c.fragment(req, "date info")
}

// AddSymptom stores intensity for s on date and returns the refreshed
// fragment.
func (c *Client) AddSymptom(ctx context.Context, s symptom.Symptom, intensity int, date calendar.Date) (*Response, error) {
	form := url.Values{
		"symptom_type": {s.String()},
		"intensity":    {strconv.Itoa(intensity)},
		"date":         {date.String()},
	}
	req, err := c.newForm(ctx, addPath, form)
	if err != nil {
		return nil, err
	}
	return c.fragment(req, "add symptom")
}

// DeleteSymptom removes the record of s on date. The answer carries no
// content and is discarded.
func (c *Client) DeleteSymptom(ctx context.Context, s symptom.Symptom, date calendar.Date) error {
	form := url.Values{
		"symptom": {s.String()},
		"date":    {date.String()},
	}
	req, err := c.newForm(ctx, deletePath, form)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("delete symptom: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return &StatusError{Op: "delete symptom", Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// Page fetches a full page, such as the dashboard, without the HTMX headers.
func (c *Client) Page(ctx context.Context, path string) (string, error) {
	return c.page(ctx, path, c.do)
}

func (c *Client) page(ctx context.Context, path string, send func(*http.Request) (*http.Response, error)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := send(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", &StatusError{Op: "get " + path, Status: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

func (c *Client) resolve(path string) string {
	return c.base.String() + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", events.DateInfoTarget)
	req.Header.Set("HX-Current-URL", c.resolve(DashboardPath))
	return req, nil
}

func (c *Client) newForm(ctx context.Context, path string, form url.Values) (*http.Request, error) {
	token, err := c.token.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("csrf token: %w", err)
	}
	if token == "" {
		return nil, ErrNoToken
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeader, token)
	// Django checks the origin of secure POSTs against the Referer.
	req.Header.Set("Referer", c.resolve(DashboardPath))
	c.ensureCSRFCookie(token)
	return req, nil
}

// ensureCSRFCookie mirrors the token into the csrftoken cookie when a jar
// is configured and the server has not set one.
func (c *Client) ensureCSRFCookie(token string) {
	jar := c.http.Jar
	if jar == nil {
		return
	}
	for _, ck := range jar.Cookies(c.base) {
		if ck.Name == csrfCookie {
			return
		}
	}
	jar.SetCookies(c.base, []*http.Cookie{{Name: csrfCookie, Value: token, Path: "/"}})
}

// do sends req within a session, logging in first when credentials are
// configured.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.ensureSession(req.Context()); err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if errors.Is(err, ErrLoginRequired) {
		c.logger.Warn("server asked for a login", zap.String("path", req.URL.Path))
		c.expireSession()
	}
	return resp, err
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	c.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path))
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("response",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode))
	return resp, nil
}

func (c *Client) fragment(req *http.Request, op string) (*Response, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Body: string(body)}
	}
	return &Response{
		Body:     string(body),
		Status:   resp.StatusCode,
		Triggers: ParseTriggers(resp.Header.Get("HX-Trigger")),
	}, nil
}

// ParseTriggers reads an HX-Trigger header. The header is either a JSON
// object keyed by event name or a comma separated list of names.
func ParseTriggers(header string) []string {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	if strings.HasPrefix(header, "{") {
		if names, err := jsonKeys(header); err == nil {
			return names
		}
	}
	var out []string
	for _, name := range strings.Split(header, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// jsonKeys returns the top level keys of a JSON object in document order.
func jsonKeys(s string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
