// Package session owns the authentication lifecycle: token acquisition,
// persistence in the cookie jar, propagation to authorized requests, and
// the downgrade back to unauthenticated when the server rejects a token.
//
// The session has two states. Unauthenticated: no token. Authenticated:
// token present, optionally with a validated user. A bare token means
// "optimistically authenticated" — IsAuthenticated is true, but User stays
// nil until CheckToken confirms the token with the server. CheckToken and
// SignOut are the only downgrade paths. Concurrent sign-ins are not
// deduplicated; the cookie slot is last-write-wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/lnclinic/prontuario/internal/cookiejar"
	"github.com/lnclinic/prontuario/internal/domain"
	"github.com/lnclinic/prontuario/internal/graphql"
)

// DefaultRedirect is where a successful sign-in lands when the caller did
// not carry an "after" destination.
const DefaultRedirect = "/"

// Manager is the single authority on authentication state. Every component
// that needs the current token or user asks the Manager instead of reading
// the cookie jar directly.
type Manager struct {
	jar          *cookiejar.Jar
	gql          *graphql.Client
	log          *slog.Logger
	cookieMaxAge time.Duration
	cookiePath   string

	mu    sync.Mutex
	token string
	user  *domain.User
}

// NewManager creates a Manager, initializing the token from the cookie jar.
func NewManager(jar *cookiejar.Jar, gql *graphql.Client, cookieMaxAge time.Duration, cookiePath string, logger *slog.Logger) *Manager {
	m := &Manager{
		jar:          jar,
		gql:          gql,
		log:          logger.With("component", "session"),
		cookieMaxAge: cookieMaxAge,
		cookiePath:   cookiePath,
	}
	if token, ok := jar.Read(); ok {
		m.token = token
	}
	return m
}

// Token returns the current session token, empty when unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the validated user, nil until CheckToken or SignIn
// populated it.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports token presence. It is optimistic: it does not
// imply the token was ever validated against the server.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// SignInResult is the outcome of a successful sign-in.
type SignInResult struct {
	Token      string
	User       domain.User
	RedirectTo string
}

// SignIn exchanges credentials for a token. On success the token is
// persisted to the cookie jar, the user is recorded, and RedirectTo echoes
// redirectTarget (or DefaultRedirect when empty). On failure the error
// carries the server's message and neither the jar nor the in-memory state
// is touched.
func (m *Manager) SignIn(ctx context.Context, username, password, redirectTarget string) (*SignInResult, error) {
	var payload struct {
		TokenAuth *struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		} `json:"tokenAuth"`
	}

	err := m.gql.Do(ctx, signInOp, map[string]any{
		"username": username,
		"password": password,
	}, "", &payload)
	if err != nil {
		return nil, fmt.Errorf("session: sign in: %w", err)
	}
	if payload.TokenAuth == nil || payload.TokenAuth.Token == "" {
		return nil, fmt.Errorf("session: sign in: no token in response: %w", domain.ErrUnauthorized)
	}

	token := payload.TokenAuth.Token
	user := payload.TokenAuth.User

	if err := m.jar.Write(token, m.cookieMaxAge, m.cookiePath); err != nil {
		return nil, fmt.Errorf("session: persist token: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.mu.Unlock()

	if redirectTarget == "" {
		redirectTarget = DefaultRedirect
	}

	m.log.Info("signed in",
		slog.String("username", username),
		slog.String("redirect", redirectTarget),
	)

	return &SignInResult{Token: token, User: user, RedirectTo: redirectTarget}, nil
}

// CheckToken validates the current token against the server.
//
// Without a token it clears the user and returns false immediately, with no
// network call. With a token it runs the current-user query; a populated
// user confirms the session, anything else (empty user, rejected token)
// downgrades it to unvalidated. A rejected token reads as false rather
// than an error; only transport-level failures are returned as errors.
func (m *Manager) CheckToken(ctx context.Context) (bool, error) {
	token := m.Token()
	if token == "" {
		m.setUser(nil)
		return false, nil
	}

	var payload struct {
		User *domain.User `json:"user"`
	}
	if err := m.gql.Do(ctx, currentUserOp, nil, token, &payload); err != nil {
		m.setUser(nil)
		if errors.Is(err, domain.ErrUnauthorized) {
			m.log.Debug("token rejected by server")
			return false, nil
		}
		return false, fmt.Errorf("session: check token: %w", err)
	}

	if payload.User == nil {
		m.setUser(nil)
		return false, nil
	}

	m.setUser(payload.User)
	return true, nil
}

// SignOut clears the cookie jar and wipes all in-memory session state.
// It is intentionally unconditional — the original reloaded the whole page
// to guarantee no authorized state survived anywhere.
func (m *Manager) SignOut() error {
	if err := m.jar.Clear(); err != nil {
		return fmt.Errorf("session: sign out: %w", err)
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.log.Info("signed out")
	return nil
}

// CollaboratorServices lists the clinical services a collaborator may sign
// in under (sign-in step 2). The query is unauthenticated.
func (m *Manager) CollaboratorServices(ctx context.Context, username string) ([]domain.Service, error) {
	var payload struct {
		CollaboratorServices []domain.Service `json:"collaboratorServices"`
	}
	if err := m.gql.Do(ctx, collaboratorServicesOp, map[string]any{"username": username}, "", &payload); err != nil {
		return nil, fmt.Errorf("session: collaborator services: %w", err)
	}
	return payload.CollaboratorServices, nil
}

// SignInURL builds the sign-in destination for an unauthenticated access
// to a protected page, carrying the origin as the return parameter.
func SignInURL(after string) string {
	if after == "" {
		return "/signin"
	}
	return "/signin?after=" + url.QueryEscape(after)
}

func (m *Manager) setUser(u *domain.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}
