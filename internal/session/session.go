package session

import (
	"net/http"
	"time"
)

// CartIDKey is the session key under which the active cart id is stored. The
// id, once established, is only written by the cart-create paths.
const CartIDKey = "cartId"

// Session is a server-side value bag identified by an opaque id. Mutations
// flip the dirty flag so the HTTP port knows a cookie commit is required.
type Session struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`

	dirty bool
}

func New(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]string),
	}
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	if current, ok := s.Values[key]; ok && current == value {
		return
	}
	s.Values[key] = value
	s.dirty = true
}

func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; !ok {
		return
	}
	delete(s.Values, key)
	s.dirty = true
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Cookie builds the Set-Cookie value committing this session to the client.
func Cookie(name, id string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
