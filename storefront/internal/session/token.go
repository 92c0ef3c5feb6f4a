package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	Token string
	Email string
}

type claims struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *Session) parse() (*claims, bool) {
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, c); err != nil {
		return nil, false
	}
	return c, true
}

// Subject is the email carried by the token. The signature is not checked.
func (s *Session) Subject() string {
	c, ok := s.parse()
	if !ok {
		return ""
	}
	return c.Email
}

// ExpiresAt is for display only.
func (s *Session) ExpiresAt() (time.Time, bool) {
	c, ok := s.parse()
	if !ok || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}
