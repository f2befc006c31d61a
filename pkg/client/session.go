package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/fragment"
)

const (
	loginPath        = "/login"
	loginProcessPath = "/login/process"
	sessionCookie    = "sessionid"
)

var (
	// ErrLoginRequired is wrapped by the StatusError returned when the server
	// redirects a request to its login page.
	ErrLoginRequired = errors.New("login required")
	// ErrLoginFailed is returned when the login form rejects the credentials.
	ErrLoginFailed = errors.New("login failed")
)

// WithCredentials makes the client log in through the login form before its
// first request. After the server sends it back to the login page the next
// request logs in again.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		if username != "" {
			c.creds = &credentials{username: username, password: password}
		}
	}
}

// WithSessionCookie reuses an existing session, e.g. the sessionid cookie of
// a browser that is already logged in.
func WithSessionCookie(value string) Option {
	return func(c *Client) { c.session = value }
}

type credentials struct {
	username string
	password string
}

// isLoginPath reports whether a redirect target is a login page.
func isLoginPath(p string) bool {
	p = strings.TrimSuffix(p, "/")
	return p == loginPath || p == "/accounts/login"
}

// checkRedirect stops a redirect to the login page. Without it the login
// form would be read as a fragment.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if !isLoginPath(req.URL.Path) {
		return nil
	}
	status := http.StatusFound
	if req.Response != nil {
		status = req.Response.StatusCode
	}
	return &StatusError{
		Op:       via[0].Method + " " + via[0].URL.Path,
		Status:   status,
		Location: req.URL.String(),
		Err:      ErrLoginRequired,
	}
}

// guard returns a copy of hc with a cookie jar and the login redirect check.
func guard(hc *http.Client) (*http.Client, error) {
	cp := *hc
	if cp.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client: cookie jar: %w", err)
		}
		cp.Jar = jar
	}
	if cp.CheckRedirect == nil {
		cp.CheckRedirect = checkRedirect
	}
	return &cp, nil
}

func (c *Client) cookie(name string) string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// Login opens a session with the login form: it reads the CSRF token from
// the login page and posts the credentials with remember_me set. The server
// answers a good login with an HX-Redirect to the dashboard.
func (c *Client) Login(ctx context.Context, username, password string) error {
	page, err := c.page(ctx, loginPath, c.send)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	doc, err := fragment.Parse(page)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	token := fragment.CSRFToken(doc)
	if token == "" {
		token = c.cookie(csrfCookie)
	}
	if token == "" {
		return fmt.Errorf("login: %w on %s", ErrNoToken, loginPath)
	}

	form := url.Values{
		"username":    {username},
		"password":    {password},
		"remember_me": {"on"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(loginProcessPath), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("login: create request: %w", err)
	}
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeader, token)
	req.Header.Set("Referer", c.resolve(loginPath))
	c.ensureCSRFCookie(token)

	resp, err := c.send(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return &StatusError{Op: "login", Status: resp.StatusCode, Body: string(body)}
	}
	if resp.Header.Get("HX-Redirect") == "" {
		return fmt.Errorf("%w for %q", ErrLoginFailed, username)
	}
	// The server rotates the CSRF token on login.
	c.sessionGen.Add(1)
	c.logger.Info("logged in", zap.String("user", username))
	return nil
}

// ensureSession logs in with the configured credentials unless a session is
// already open.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.creds == nil {
		return nil
	}
	c.authMu.Lock()
	defer c.authMu.Unlock()
	if c.authed {
		return nil
	}
	if err := c.Login(ctx, c.creds.username, c.creds.password); err != nil {
		return err
	}
	c.authed = true
	return nil
}

func (c *Client) expireSession() {
	c.authMu.Lock()
	c.authed = false
	c.authMu.Unlock()
	c.sessionGen.Add(1)
}
