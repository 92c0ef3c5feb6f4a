// Package session turns a signed-in identity into an API session token and
// attaches it to outgoing requests.
package session

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"foodzone/storefront/internal/identity"
	"foodzone/storefront/internal/storage"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

var ErrNoSession = errors.New("session: not authenticated")

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type TokenExchanger interface {
	ExchangeToken(ctx context.Context, email, uid, idToken string) (string, error)
}

type UserRegistrar interface {
	RegisterUser(ctx context.Context, email, displayName, photoURL string) error
}

type Navigator interface {
	Redirect(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Redirect(path string) { f(path) }

type Config struct {
	Store     storage.Local
	Exchanger TokenExchanger
	Registrar UserRegistrar // optional
	Provider  identity.Provider
	Navigator Navigator
	Transport HTTPClient

	// Notify receives failures that should reach the user without
	// stopping anything, such as a failed token exchange.
	Notify func(error)
}

// Guard owns the session token. Every identity notification bumps the
// generation; an exchange result is installed only while its generation
// is still current.
type Guard struct {
	cfg Config

	mu         sync.Mutex
	state      State
	session    *Session
	generation uint64
	onLogout   []func()
}

func New(cfg Config) *Guard {
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultClient
	}
	if cfg.Navigator == nil {
		cfg.Navigator = NavigatorFunc(func(string) {})
	}
	return &Guard{cfg: cfg}
}

// Start subscribes to the identity provider. The current user is handled
// before Start returns.
func (g *Guard) Start(ctx context.Context) (stop func()) {
	return g.cfg.Provider.Subscribe(func(u *identity.User) {
		g.handleIdentity(ctx, u)
	})
}

func (g *Guard) handleIdentity(ctx context.Context, u *identity.User) {
	g.mu.Lock()
	g.generation++
	gen := g.generation

	if u == nil || u.Email == "" {
		g.clearLocked()
		g.mu.Unlock()
		return
	}
	g.state = Authenticating
	g.session = nil
	g.mu.Unlock()

	token, err := g.cfg.Exchanger.ExchangeToken(ctx, u.Email, u.UID, u.IDToken)

	g.mu.Lock()
	if gen != g.generation {
		g.mu.Unlock()
		log.Printf("[storefront] session: discarding stale token exchange for %s", u.Email)
		return
	}
	if err == nil && token == "" {
		err = errors.New("session: empty token from exchange")
	}
	if err != nil {
		g.clearLocked()
		g.mu.Unlock()
		log.Printf("[storefront] session: token exchange for %s failed: %v", u.Email, err)
		g.notify(err)
		return
	}

	g.state = Authenticated
	g.session = &Session{Token: token, Email: u.Email}
	if err := g.cfg.Store.Set(storage.TokenKey, token); err != nil {
		log.Printf("[storefront] session: persist token: %v", err)
	}
	g.mu.Unlock()

	if g.cfg.Registrar != nil {
		if err := g.cfg.Registrar.RegisterUser(ctx, u.Email, u.DisplayName, u.PhotoURL); err != nil {
			log.Printf("[storefront] session: register %s: %v", u.Email, err)
		}
	}
}

// Resume adopts a token left in storage by an earlier run. The server is
// the judge of whether it is still good.
func (g *Guard) Resume() bool {
	token, err := g.cfg.Store.Get(storage.TokenKey)
	if err != nil || token == "" {
		return false
	}
	s := &Session{Token: token}
	s.Email = s.Subject()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Anonymous {
		return false
	}
	g.generation++
	g.state = Authenticated
	g.session = s
	return true
}

// Do sends req with the current bearer token. A 401 or 403 answer forces a
// logout; the response is still handed back.
func (g *Guard) Do(req *http.Request) (*http.Response, error) {
	g.mu.Lock()
	gen := g.generation
	token := ""
	if g.session != nil {
		token = g.session.Token
	}
	g.mu.Unlock()

	out := req.Clone(req.Context())
	out.Header.Del("Authorization")
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.cfg.Transport.Do(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		g.forceLogout(req.Context(), gen)
	}
	return resp, nil
}

// ForceLogout drops the session, signs out of the identity provider and
// sends the user to the login page.
func (g *Guard) ForceLogout(ctx context.Context) {
	g.mu.Lock()
	gen := g.generation
	g.mu.Unlock()
	g.forceLogout(ctx, gen)
}

func (g *Guard) forceLogout(ctx context.Context, gen uint64) {
	g.mu.Lock()
	if gen != g.generation {
		// a newer session replaced the one that was rejected
		g.mu.Unlock()
		return
	}
	g.generation++
	g.clearLocked()
	g.mu.Unlock()

	if err := g.cfg.Provider.SignOut(ctx); err != nil {
		log.Printf("[storefront] session: sign out: %v", err)
	}
	g.cfg.Navigator.Redirect(LoginPath)
}

// Logout is a user-initiated sign out.
func (g *Guard) Logout(ctx context.Context) error {
	if err := g.cfg.Provider.SignOut(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	g.generation++
	g.clearLocked()
	g.mu.Unlock()
	return nil
}

// OnLogout registers fn to run whenever the session is cleared.
func (g *Guard) OnLogout(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onLogout = append(g.onLogout, fn)
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns a copy of the current session, or nil.
func (g *Guard) Session() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

func (g *Guard) clearLocked() {
	g.state = Anonymous
	g.session = nil
	if err := g.cfg.Store.Remove(storage.TokenKey); err != nil {
		log.Printf("[storefront] session: remove token: %v", err)
	}
	for _, fn := range g.onLogout {
		fn()
	}
}

func (g *Guard) notify(err error) {
	if g.cfg.Notify != nil {
		g.cfg.Notify(err)
	}
}
