// ABOUTME: Cookie jar that survives process restarts
// ABOUTME: Wraps net/http/cookiejar and mirrors the API host's cookies into local storage

package client

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gursheyss/cs157a/internal/localstore"
	"golang.org/x/net/publicsuffix"
)

// CookieKey is the local storage key holding persisted cookies
const CookieKey = "cookies"

// CookieStore is the slice of local storage the jar needs
type CookieStore interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
	RemoveItem(ctx context.Context, key string) error
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
}

// persistentJar is safe for concurrent use; reset swaps the inner jar.
// attrs keeps the attributes the server set, which cookiejar does not expose.
type persistentJar struct {
	mu       sync.RWMutex
	jar      *cookiejar.Jar
	base     *url.URL
	store    CookieStore
	attrs    map[string]storedCookie
	loopback bool
}

func newJar() *cookiejar.Jar {
	// cookiejar.New never returns an error
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// cookiePath is where the server scopes its session cookie
const cookiePath = "/api"

func newPersistentJar(base *url.URL, store CookieStore) *persistentJar {
	scope := base.ResolveReference(&url.URL{Path: cookiePath + "/"})
	return &persistentJar{
		jar:      newJar(),
		base:     scope,
		store:    store,
		attrs:    make(map[string]storedCookie),
		loopback: base.Scheme == "http" && isLoopback(base.Hostname()),
	}
}

// isLoopback mirrors the browser rule that treats localhost as a secure context
func isLoopback(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// insecure returns cookies with Secure cleared so plain-http loopback keeps sending them
func insecure(cookies []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Secure {
			cp := *c
			cp.Secure = false
			c = &cp
		}
		out = append(out, c)
	}
	return out
}

func (p *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(p.attrs, c.Name)
			continue
		}
		sc := storedCookie{Name: c.Name, Path: c.Path, Secure: c.Secure, HttpOnly: c.HttpOnly, Expires: c.Expires}
		if c.MaxAge > 0 {
			sc.Expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		p.attrs[c.Name] = sc
	}
	if p.loopback {
		cookies = insecure(cookies)
	}
	p.jar.SetCookies(u, cookies)
	p.mu.Unlock()
	p.save(context.Background())
}

func (p *persistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jar.Cookies(u)
}

// load restores persisted cookies for the API host
func (p *persistentJar) load(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	var stored []storedCookie
	if err := p.store.GetJSON(ctx, CookieKey, &stored); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil
		}
		return err
	}

	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(stored))
	p.mu.Lock()
	for _, c := range stored {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		path := c.Path
		if path == "" {
			path = cookiePath
		}
		cookies = append(cookies, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
			Expires:  c.Expires,
		})
		c.Value = ""
		p.attrs[c.Name] = c
	}
	if p.loopback {
		cookies = insecure(cookies)
	}
	p.jar.SetCookies(p.base, cookies)
	p.mu.Unlock()
	slog.Debug("Restored cookies", "count", len(cookies))
	return nil
}

func (p *persistentJar) save(ctx context.Context) {
	if p.store == nil {
		return
	}
	p.mu.RLock()
	current := p.jar.Cookies(p.base)
	stored := make([]storedCookie, 0, len(current))
	for _, c := range current {
		sc, ok := p.attrs[c.Name]
		if !ok {
			sc = storedCookie{Name: c.Name}
		}
		sc.Value = c.Value
		stored = append(stored, sc)
	}
	p.mu.RUnlock()

	if len(stored) == 0 {
		if err := p.store.RemoveItem(ctx, CookieKey); err != nil {
			slog.Warn("Failed to clear persisted cookies", "error", err)
		}
		return
	}
	if err := p.store.SetJSON(ctx, CookieKey, stored); err != nil {
		slog.Warn("Failed to persist cookies", "error", err)
	}
}

// reset drops every cookie, in memory and on disk
func (p *persistentJar) reset(ctx context.Context) {
	p.mu.Lock()
	p.jar = newJar()
	p.attrs = make(map[string]storedCookie)
	p.mu.Unlock()
	p.save(ctx)
}
