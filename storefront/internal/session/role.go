package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleUser   Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleUser:
		return true
	}
	return false
}

type RoleFetcher interface {
	Role(ctx context.Context, email string) (string, error)
}

type Decision struct {
	Allowed  bool
	Role     Role
	Redirect string
}

// RoleResolver looks up the signed-in user's role. Roles have no
// hierarchy: an admin does not pass a seller gate.
type RoleResolver struct {
	fetcher RoleFetcher
	guard   *Guard
	cache   *RoleCache
}

// NewRoleResolver builds a resolver. cache may be nil, which means every
// lookup goes to the server.
func NewRoleResolver(fetcher RoleFetcher, guard *Guard, cache *RoleCache) *RoleResolver {
	r := &RoleResolver{fetcher: fetcher, guard: guard, cache: cache}
	if cache != nil {
		guard.OnLogout(cache.Clear)
	}
	return r
}

func (r *RoleResolver) Resolve(ctx context.Context, email string) (Role, error) {
	key := strings.ToLower(email)
	if role, ok := r.cache.get(key); ok {
		return role, nil
	}
	raw, err := r.fetcher.Role(ctx, email)
	if err != nil {
		return "", err
	}
	role := Role(raw)
	if role.Valid() {
		r.cache.put(key, role)
	}
	return role, nil
}

// Gate decides whether the current user may see a view that requires want.
// Anything other than a confirmed match is a denial.
func (r *RoleResolver) Gate(ctx context.Context, want Role) Decision {
	s := r.guard.Session()
	if s == nil || s.Email == "" {
		return Decision{Redirect: LoginPath}
	}
	role, err := r.Resolve(ctx, s.Email)
	if err != nil {
		log.Printf("[storefront] session: role lookup for %s: %v", s.Email, err)
		if r.guard.State() == Anonymous {
			return Decision{Redirect: LoginPath}
		}
		return Decision{Redirect: DashboardPath}
	}
	if !role.Valid() || role != want {
		return Decision{Role: role, Redirect: DashboardPath}
	}
	return Decision{Allowed: true, Role: role}
}

// RoleCache remembers roles for a short while. Its TTL bounds how stale a
// role can be after the server changes it.
type RoleCache struct {
	TTL time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]roleEntry
}

type roleEntry struct {
	role    Role
	expires time.Time
}

func NewRoleCache(ttl time.Duration) *RoleCache {
	return &RoleCache{TTL: ttl, now: time.Now, entries: make(map[string]roleEntry)}
}

func (c *RoleCache) get(email string) (Role, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[email]
	if !ok || !c.now().Before(e.expires) {
		delete(c.entries, email)
		return "", false
	}
	return e.role, true
}

func (c *RoleCache) put(email string, role Role) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[email] = roleEntry{role: role, expires: c.now().Add(c.TTL)}
}

func (c *RoleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]roleEntry)
}

func (c *RoleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
