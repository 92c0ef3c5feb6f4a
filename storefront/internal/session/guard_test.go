package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodzone/storefront/internal/identity"
	"foodzone/storefront/internal/session"
	"foodzone/storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	*identity.Emitter
	signOuts int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{Emitter: identity.NewEmitter()}
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (*identity.User, error) {
	return p.SignIn(ctx, email, password)
}

func (p *fakeProvider) SignIn(_ context.Context, email, _ string) (*identity.User, error) {
	u := &identity.User{UID: "uid-" + email, Email: email}
	p.Emit(u)
	return u, nil
}

func (p *fakeProvider) SignInWithProvider(ctx context.Context, _, _ string) (*identity.User, error) {
	return p.SignIn(ctx, "google@x.com", "")
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.signOuts++
	p.Emit(nil)
	return nil
}

func (p *fakeProvider) UpdateProfile(context.Context, string, string) error { return nil }

type exchangeFunc func(ctx context.Context, email, uid, idToken string) (string, error)

func (f exchangeFunc) ExchangeToken(ctx context.Context, email, uid, idToken string) (string, error) {
	return f(ctx, email, uid, idToken)
}

type registrar struct{ emails []string }

func (r *registrar) RegisterUser(_ context.Context, email, _, _ string) error {
	r.emails = append(r.emails, email)
	return errors.New("User already exists")
}

type recorder struct{ paths []string }

func (r *recorder) Redirect(path string) { r.paths = append(r.paths, path) }

func tokenFor(email string) exchangeFunc {
	return func(context.Context, string, string, string) (string, error) {
		return "token-" + email, nil
	}
}

func TestGuard_SignInExchangesAndStoresToken(t *testing.T) {
	provider := newFakeProvider()
	store := storage.NewMemory()
	reg := &registrar{}
	g := session.New(session.Config{
		Store:     store,
		Exchanger: tokenFor("ana"),
		Registrar: reg,
		Provider:  provider,
	})

	stop := g.Start(context.Background())
	defer stop()
	assert.Equal(t, session.Anonymous, g.State())

	_, err := provider.SignIn(context.Background(), "ana@x.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, session.Authenticated, g.State())
	assert.Equal(t, "ana@x.com", g.Session().Email)
	token, err := store.Get(storage.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "token-ana", token)
	// registration errors are swallowed
	assert.Equal(t, []string{"ana@x.com"}, reg.emails)
}

func TestGuard_AuthFailureForcesLogout(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "forbidden", status: http.StatusForbidden},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var seen []string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, r.Header.Get("Authorization"))
				if r.URL.Path == "/admin" {
					w.WriteHeader(testCase.status)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer ts.Close()

			provider := newFakeProvider()
			store := storage.NewMemory()
			nav := &recorder{}
			g := session.New(session.Config{
				Store:     store,
				Exchanger: tokenFor("ana"),
				Provider:  provider,
				Navigator: nav,
				Transport: ts.Client(),
			})
			defer g.Start(context.Background())()
			provider.SignIn(context.Background(), "ana@x.com", "pw")

			get := func(path string) int {
				req, _ := http.NewRequest(http.MethodGet, ts.URL+path, nil)
				resp, err := g.Do(req)
				require.NoError(t, err)
				resp.Body.Close()
				return resp.StatusCode
			}

			assert.Equal(t, http.StatusOK, get("/orders"))
			assert.Equal(t, testCase.status, get("/admin"))
			assert.Equal(t, http.StatusOK, get("/orders"))

			assert.Equal(t, []string{"Bearer token-ana", "Bearer token-ana", ""}, seen)
			assert.Equal(t, session.Anonymous, g.State())
			assert.Equal(t, 1, provider.signOuts)
			assert.Equal(t, []string{session.LoginPath}, nav.paths)
			_, err := store.Get(storage.TokenKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestGuard_DoWithoutSessionSendsNoHeader(t *testing.T) {
	var header string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	g := session.New(session.Config{
		Store:     storage.NewMemory(),
		Provider:  newFakeProvider(),
		Transport: ts.Client(),
	})

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	req.Header.Set("Authorization", "Bearer forged")
	resp, err := g.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, header)
	assert.Equal(t, "Bearer forged", req.Header.Get("Authorization"), "caller request is not mutated")
}

func TestGuard_ExchangeFailureStaysAnonymous(t *testing.T) {
	provider := newFakeProvider()
	store := storage.NewMemory()
	store.Set(storage.TokenKey, "old")
	var notified []error

	g := session.New(session.Config{
		Store: store,
		Exchanger: exchangeFunc(func(context.Context, string, string, string) (string, error) {
			return "", errors.New("network down")
		}),
		Provider: provider,
		Notify:   func(err error) { notified = append(notified, err) },
	})
	defer g.Start(context.Background())()

	provider.SignIn(context.Background(), "ana@x.com", "pw")

	assert.Equal(t, session.Anonymous, g.State())
	assert.Nil(t, g.Session())
	require.Len(t, notified, 1)
	_, err := store.Get(storage.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGuard_SignOutDuringExchangeDiscardsResult(t *testing.T) {
	provider := newFakeProvider()
	store := storage.NewMemory()

	g := session.New(session.Config{
		Store: store,
		Exchanger: exchangeFunc(func(ctx context.Context, email, _, _ string) (string, error) {
			provider.SignOut(ctx)
			return "late-" + email, nil
		}),
		Provider: provider,
	})
	defer g.Start(context.Background())()

	provider.SignIn(context.Background(), "ana@x.com", "pw")

	assert.Equal(t, session.Anonymous, g.State())
	_, err := store.Get(storage.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGuard_NewerSignInWins(t *testing.T) {
	provider := newFakeProvider()
	calls := 0
	g := session.New(session.Config{
		Store: storage.NewMemory(),
		Exchanger: exchangeFunc(func(ctx context.Context, email, _, _ string) (string, error) {
			calls++
			if calls == 1 {
				provider.SignIn(ctx, "bo@x.com", "pw")
			}
			return "token-" + email, nil
		}),
		Provider: provider,
	})
	defer g.Start(context.Background())()

	provider.SignIn(context.Background(), "ana@x.com", "pw")

	require.NotNil(t, g.Session())
	assert.Equal(t, "bo@x.com", g.Session().Email)
	assert.Equal(t, "token-bo@x.com", g.Session().Token)
}

func TestGuard_ResumeAdoptsStoredToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ana@x.com",
		"exp":   exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := storage.NewMemory()
	store.Set(storage.TokenKey, token)
	g := session.New(session.Config{Store: store, Provider: newFakeProvider()})

	require.True(t, g.Resume())
	s := g.Session()
	assert.Equal(t, "ana@x.com", s.Email)
	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	assert.False(t, g.Resume(), "already authenticated")
}

func TestGuard_ResumeWithoutToken(t *testing.T) {
	g := session.New(session.Config{Store: storage.NewMemory(), Provider: newFakeProvider()})
	assert.False(t, g.Resume())
	assert.Equal(t, session.Anonymous, g.State())
}
