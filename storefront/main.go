package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"foodzone/config"
	"foodzone/storefront/internal/apiclient"
	"foodzone/storefront/internal/cart"
	"foodzone/storefront/internal/checkout"
	"foodzone/storefront/internal/identity"
	"foodzone/storefront/internal/session"
	"foodzone/storefront/internal/storage"
)

type app struct {
	store    storage.Local
	provider identity.Provider
	guard    *session.Guard
	api      *apiclient.Client
	roles    *session.RoleResolver
	cart     *cart.Store
	checkout *checkout.Service
	stop     func()
}

func newStore() storage.Local {
	switch config.GetEnv("STOREFRONT_STORAGE", "file") {
	case "redis":
		return storage.NewRedis(config.MustInitRedis(), config.GetEnv("STOREFRONT_PROFILE", "default"))
	case "memory":
		return storage.NewMemory()
	default:
		return storage.NewFile(storage.DefaultPath())
	}
}

func newApp(ctx context.Context) *app {
	store := newStore()
	httpClient := &http.Client{Timeout: config.GetDuration("HTTP_TIMEOUT", 15*time.Second)}
	baseURL := config.GetEnv("FOODZONE_API_URL", "http://localhost:5000")

	provider := identity.NewFirebase(config.GetEnv("FIREBASE_API_KEY", ""), httpClient, store)
	if u := os.Getenv("FIREBASE_AUTH_URL"); u != "" {
		provider.BaseURL = u
	}
	if u := os.Getenv("FIREBASE_TOKEN_URL"); u != "" {
		provider.TokenURL = u
	}
	if err := provider.Restore(ctx); err != nil {
		log.Printf("[storefront] identity: %v", err)
	}

	public := apiclient.New(baseURL, httpClient, nil)
	guard := session.New(session.Config{
		Store:     store,
		Exchanger: public,
		Registrar: public,
		Provider:  provider,
		Navigator: session.NavigatorFunc(func(path string) {
			fmt.Fprintf(os.Stderr, "session ended, sign in again (%s)\n", path)
		}),
		Transport: httpClient,
		Notify: func(err error) {
			fmt.Fprintf(os.Stderr, "could not start session: %v\n", err)
		},
	})
	api := apiclient.New(baseURL, httpClient, guard)

	var cache *session.RoleCache
	if ttl := config.GetDuration("ROLE_CACHE_TTL", 0); ttl > 0 {
		cache = session.NewRoleCache(ttl)
	}

	c := cart.New(store)
	c.Load()

	return &app{
		store:    store,
		provider: provider,
		guard:    guard,
		api:      api,
		roles:    session.NewRoleResolver(api, guard, cache),
		cart:     c,
		checkout: checkout.NewService(c, api),
		stop:     func() {},
	}
}

func (a *app) close() {
	a.stop()
	a.cart.Close()
}

// ensureSession reuses a stored token when there is one and otherwise
// exchanges the remembered identity for a fresh token.
func (a *app) ensureSession(ctx context.Context) error {
	if a.guard.Resume() {
		return nil
	}
	a.stop = a.guard.Start(ctx)
	if a.guard.State() != session.Authenticated {
		return session.ErrNoSession
	}
	return nil
}

func main() {
	os.Exit(run())
}

// run executes one command and returns the process exit code. Deferred
// cleanup runs before main exits.
func run() int {
	config.Load()

	if len(os.Args) < 2 {
		usage()
		return 2
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration("COMMAND_TIMEOUT", time.Minute))
	defer cancel()

	a := newApp(ctx)
	defer a.close()

	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
