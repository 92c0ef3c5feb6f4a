// Package identity is the storefront's view of the external identity
// provider.
package identity

import (
	"context"
	"errors"
	"sync"
)

var ErrNotSignedIn = errors.New("identity: no signed-in user")

type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	IDToken     string `json:"idToken,omitempty"`

	RefreshToken string `json:"refreshToken,omitempty"`
}

type Provider interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignInWithProvider(ctx context.Context, providerID, idToken string) (*User, error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, displayName, photoURL string) error
	CurrentUser() *User

	// Subscribe registers fn to be called with the current user right away
	// and again on every change, nil meaning signed out. The returned func
	// unsubscribes and is safe to call more than once.
	Subscribe(fn func(*User)) (unsubscribe func())
}

// Emitter holds the current user and fans changes out to subscribers in
// registration order. Handlers run on the goroutine that calls Emit.
type Emitter struct {
	mu       sync.Mutex
	current  *User
	nextID   int
	handlers map[int]func(*User)
	order    []int
}

func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[int]func(*User))}
}

func (e *Emitter) CurrentUser() *User {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyUser(e.current)
}

func (e *Emitter) Subscribe(fn func(*User)) func() {
	e.mu.Lock()
	if e.handlers == nil {
		e.handlers = make(map[int]func(*User))
	}
	id := e.nextID
	e.nextID++
	e.handlers[id] = fn
	e.order = append(e.order, id)
	current := copyUser(e.current)
	e.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.handlers, id)
			for i, v := range e.order {
				if v == id {
					e.order = append(e.order[:i], e.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit records u as the current user and notifies every subscriber.
func (e *Emitter) Emit(u *User) {
	e.mu.Lock()
	e.current = copyUser(u)
	handlers := make([]func(*User), 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(copyUser(u))
	}
}

// Update replaces the current user without notifying anyone. Use it for
// changes that do not affect who is signed in.
func (e *Emitter) Update(u *User) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = copyUser(u)
}

func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.order)
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
