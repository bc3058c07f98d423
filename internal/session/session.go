package session

import (
	"context"
	"encoding/gob"
	"net/http"
	"unicode/utf8"

	"courseportal/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	tokenKey = "token"
	userKey  = "user"
	csrfKey  = "csrf"

	// maxFlashMessage keeps queued notifications well below the 4096 byte cookie limit.
	maxFlashMessage = 512
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Title   string
	Message string
}

type contextKey struct{}

// Session is the state the portal keeps for one browser: the backend bearer token and the user it belongs to. A
// session is authenticated exactly when Token is non-empty.
type Session struct {
	Token     string
	User      *models.User
	CSRFToken string

	raw *sessions.Session
}

func init() {
	gob.Register(models.User{})
	gob.Register(Flash{})
}

func newSession(raw *sessions.Session) *Session {
	s := &Session{raw: raw}
	s.Token, _ = raw.Values[tokenKey].(string)
	if u, ok := raw.Values[userKey].(models.User); ok {
		s.User = &u
	}
	s.CSRFToken, _ = raw.Values[csrfKey].(string)
	return s
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

func (s *Session) IsInstructor() bool {
	return s.IsAuthenticated() && s.User.IsInstructor()
}

// UserID returns the id of the logged in user, or 0 for anonymous sessions.
func (s *Session) UserID() int {
	if !s.IsAuthenticated() || s.User == nil {
		return 0
	}
	return s.User.ID
}

// SetAuth stores the token and user together.
func (s *Session) SetAuth(token string, user *models.User) {
	s.Token = token
	s.User = user
	s.raw.Values[tokenKey] = token
	if user != nil {
		s.raw.Values[userKey] = *user
	} else {
		delete(s.raw.Values, userKey)
	}
}

// SetUser replaces the cached user, e.g. after a profile edit.
func (s *Session) SetUser(user *models.User) {
	s.SetAuth(s.Token, user)
}

// Clear drops the token and the user. The CSRF token is kept so open forms stay valid.
func (s *Session) Clear() {
	s.Token = ""
	s.User = nil
	delete(s.raw.Values, tokenKey)
	delete(s.raw.Values, userKey)
}

// rotateCSRF issues a new CSRF token. Called on every change of identity.
func (s *Session) rotateCSRF() {
	s.CSRFToken = uuid.NewString()
	s.raw.Values[csrfKey] = s.CSRFToken
}

// AddFlash queues a notification. Messages longer than maxFlashMessage bytes are cut so the session still fits in
// its cookie.
func (s *Session) AddFlash(kind FlashKind, title, message string) {
	s.raw.AddFlash(Flash{Kind: kind, Title: title, Message: truncate(message, maxFlashMessage)})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

// Flashes returns and removes the pending notifications. The session must be saved afterwards.
func (s *Session) Flashes() []Flash {
	var flashes []Flash
	for _, f := range s.raw.Flashes() {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

func (s *Session) Save(w http.ResponseWriter, r *http.Request) error {
	return s.raw.Save(r, w)
}

// FromContext returns the Session attached by Manager.Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// FromRequest is a shorthand for FromContext(r.Context()).
func FromRequest(r *http.Request) *Session {
	return FromContext(r.Context())
}

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}
