package session

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"courseportal/internal/api"
	"courseportal/internal/config"
	"courseportal/internal/metrics"
	"courseportal/internal/models"
	"courseportal/internal/qerrors"

	"github.com/golang/glog"
	"github.com/gorilla/sessions"
)

// CSRFFieldName is the form field that carries the session's CSRF token.
const CSRFFieldName = "csrf_token"

// Manager owns the session cookie and the auth flows that change it.
type Manager struct {
	client *api.Client
	store  sessions.Store
	name   string
}

func NewManager(client *api.Client, store sessions.Store, cookieName string) *Manager {
	return &Manager{
		client: client,
		store:  store,
		name:   cookieName,
	}
}

// NewCookieStore creates an encrypted cookie store whose keys are derived from the configured session secret.
func NewCookieStore(cfg *config.ServerConfig) *sessions.CookieStore {
	hashKey := sha256.Sum256([]byte("hash:" + cfg.SessionSecret))
	blockKey := sha256.Sum256([]byte("block:" + cfg.SessionSecret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionCookieExpiration.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsHTTPS,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Client returns the backend client bound to the request's session token.
func (m *Manager) Client(r *http.Request) *api.Client {
	s := FromRequest(r)
	if s == nil {
		return m.client
	}
	return m.client.WithToken(s.Token)
}

// Middleware loads the session for every request and attaches it to the request context. A stored token that has
// expired is dropped. A stored token without a cached user is resolved through the profile endpoint; if that fails the
// token is dropped and the request continues anonymously.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := m.store.Get(r, m.name)
		if err != nil {
			// Undecodable cookie, e.g. after a secret rotation. raw is a fresh session.
			glog.Warningf("discarding unreadable session cookie: %v\n", err)
		}
		s := newSession(raw)

		dirty := false
		if s.Token != "" && tokenExpired(s.Token, time.Now()) {
			glog.Infoln("stored token has expired, continuing anonymously")
			s.Clear()
			dirty = true
		}
		if s.Token != "" && s.User == nil {
			user, err := m.client.WithToken(s.Token).Profile(r.Context())
			if err != nil {
				glog.Warningf("stored token rejected, continuing anonymously: %v\n", err)
				s.Clear()
			} else {
				s.SetUser(user)
			}
			dirty = true
		}
		if s.CSRFToken == "" {
			s.rotateCSRF()
			dirty = true
		}
		if dirty {
			if err := s.Save(w, r); err != nil {
				glog.Errorf("failed to save session: %v\n", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
	})
}

// Login exchanges credentials for a token, resolves the profile and stores both in the session. Nothing is stored
// unless both steps succeed.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, req *models.LoginRequest) (*models.User, error) {
	resp, err := m.client.Login(ctx, req)
	if err != nil {
		metrics.RecordAuthEvent("login", "failure")
		return nil, err
	}

	user, err := m.establish(ctx, w, r, resp)
	if err != nil {
		metrics.RecordAuthEvent("login", "failure")
		return nil, err
	}
	metrics.RecordAuthEvent("login", "success")
	return user, nil
}

// Register creates an account and logs the new user in, with the same guarantees as Login.
func (m *Manager) Register(ctx context.Context, w http.ResponseWriter, r *http.Request, req *models.RegisterRequest) (*models.User, error) {
	resp, err := m.client.Register(ctx, req)
	if err != nil {
		metrics.RecordAuthEvent("register", "failure")
		return nil, err
	}

	user, err := m.establish(ctx, w, r, resp)
	if err != nil {
		metrics.RecordAuthEvent("register", "failure")
		return nil, err
	}
	metrics.RecordAuthEvent("register", "success")
	return user, nil
}

func (m *Manager) establish(ctx context.Context, w http.ResponseWriter, r *http.Request, resp *models.AuthResponse) (*models.User, error) {
	if resp == nil || resp.AccessToken == "" {
		return nil, qerrors.MissingTokenError
	}

	user, err := m.client.WithToken(resp.AccessToken).Profile(ctx)
	if err != nil {
		return nil, err
	}

	s := FromRequest(r)
	if s == nil {
		return nil, qerrors.NotAuthenticatedError
	}
	s.SetAuth(resp.AccessToken, user)
	s.rotateCSRF()
	if err := s.Save(w, r); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the token and user from the session.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := FromRequest(r)
	if s == nil {
		return nil
	}
	s.Clear()
	s.rotateCSRF()
	metrics.RecordAuthEvent("logout", "success")
	return s.Save(w, r)
}

// RequireAuth is a middleware that redirects anonymous requests to the login page. When adminOnly is set,
// authenticated users without the ADMIN role are sent back home with an error notification.
func RequireAuth(adminOnly bool) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := FromRequest(r)
			if !s.IsAuthenticated() {
				http.Redirect(w, r, "/auth", http.StatusSeeOther)
				return
			}

			if adminOnly && !s.IsAdmin() {
				s.AddFlash(FlashError, "Access denied", "This area is restricted to administrators.")
				if err := s.Save(w, r); err != nil {
					glog.Errorf("failed to save session: %v\n", err)
				}
				http.Redirect(w, r, "/home", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// VerifyCSRF rejects state-changing requests whose form token does not match the session's.
func VerifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		s := FromRequest(r)
		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.PostFormValue(CSRFFieldName)
		}
		if s == nil || s.CSRFToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.CSRFToken)) != 1 {
			http.Error(w, qerrors.InvalidCSRFTokenError.Error(), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
