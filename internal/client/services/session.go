// Package services contains the application services of the ReceitaSecreta
// client: session lifecycle, ingredient reconciliation, and image upload
// orchestration.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/api"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/repositories/credentials"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// validate is shared by all services; struct tags carry the rules.
var validate = validator.New(validator.WithRequiredStructEnabled())

// SessionService owns the authenticated identity and bearer credential.
//
// Contract:
//   - Initialize: hydrate the session from the credential store; corrupt
//     stored state self-heals by clearing the store.
//   - Login/Register: authenticate and persist token+user together.
//   - Logout: clear in-memory and stored state.
//   - StartWatcher: collapse the session when the transport evicts
//     credentials, the stored token disappears, or the token expires.
type SessionService interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, reg models.Registration) error
	Logout(ctx context.Context) error
	Session() models.Session
	IsAuthenticated() bool
	Loading() bool
	StartWatcher(ctx context.Context, interval time.Duration)
}

type sessionService struct {
	client api.Client
	creds  credentials.Repository
	log    logging.Logger

	// initFloor keeps Initialize from resolving faster than a visible
	// loading indicator can settle. Zero in tests.
	initFloor time.Duration

	mu      sync.RWMutex
	session models.Session
	loading bool
}

// NewSessionService constructs a SessionService bound to the given transport
// and credential store. initFloor is the minimum Initialize duration for
// interactive use; pass 0 to disable.
func NewSessionService(client api.Client, creds credentials.Repository, log logging.Logger, initFloor time.Duration) SessionService {
	return &sessionService{
		client:    client,
		creds:     creds,
		log:       log.With("component", "session"),
		initFloor: initFloor,
	}
}

// Initialize restores the session persisted by a previous run. Both keys must
// be present and the user blob must parse; anything else is treated as
// corruption and self-heals by clearing the store. Never returns a
// user-facing error for corrupt state.
func (s *sessionService) Initialize(ctx context.Context) error {
	s.setLoading(true)
	started := time.Now()
	defer func() {
		if remaining := s.initFloor - time.Since(started); remaining > 0 {
			select {
			case <-time.After(remaining):
			case <-ctx.Done():
			}
		}
		s.setLoading(false)
	}()

	token, err := s.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	userBlob, err := s.creds.Get(ctx, credentials.KeyUser)
	if err != nil {
		return fmt.Errorf("failed to read stored user: %w", err)
	}

	if token == "" || len(userBlob) == 0 {
		// Missing or half-written state: start unauthenticated.
		if token != "" || len(userBlob) != 0 {
			s.healCorruptStore(ctx, "partial session in store")
		}
		return nil
	}

	var user models.User
	if err := json.Unmarshal(userBlob, &user); err != nil {
		s.healCorruptStore(ctx, "stored user does not parse")
		return nil
	}

	s.mu.Lock()
	s.session = models.Session{User: &user, Token: token}
	s.mu.Unlock()
	s.log.Info(ctx, "session restored", "user", user.Username)
	return nil
}

func (s *sessionService) healCorruptStore(ctx context.Context, reason string) {
	s.log.Warn(ctx, "clearing corrupt credential store", "reason", reason)
	if err := s.creds.ClearSession(ctx); err != nil {
		s.log.Error(ctx, "failed to clear credential store", "error", err)
	}
}

// Login authenticates and persists the returned session. On failure the
// current session state is left untouched and the error propagates unchanged.
func (s *sessionService) Login(ctx context.Context, creds models.Credentials) error {
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	token, user, err := s.client.Login(ctx, creds)
	if err != nil {
		return err
	}
	return s.establish(ctx, token, user)
}

// Register creates an account and establishes the returned session,
// symmetric to Login.
func (s *sessionService) Register(ctx context.Context, reg models.Registration) error {
	if err := validate.Struct(reg); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	token, user, err := s.client.Register(ctx, reg)
	if err != nil {
		return err
	}
	return s.establish(ctx, token, user)
}

func (s *sessionService) establish(ctx context.Context, token string, user *models.User) error {
	if err := s.creds.SaveSession(ctx, token, user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.mu.Lock()
	s.session = models.Session{User: user, Token: token}
	s.mu.Unlock()
	s.log.Info(ctx, "session established", "user", user.Username)
	return nil
}

// Logout clears in-memory state and the credential store. Callers handle any
// navigation; this is side-effect only.
func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()

	if err := s.creds.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear credential store: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *sessionService) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *sessionService) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

func (s *sessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *sessionService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// StartWatcher runs until ctx is cancelled. It reacts immediately to
// transport evictions and additionally compares the stored token to memory
// once per interval, which covers credentials wiped by anything other than
// the transport. Run it in its own goroutine.
func (s *sessionService) StartWatcher(ctx context.Context, interval time.Duration) {
	evictions := s.client.SubscribeEvictions()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-evictions:
			if !ok {
				return
			}
			s.collapse(ctx, "credentials evicted by transport", false)

		case <-ticker.C:
			s.checkStoredSession(ctx)

		case <-ctx.Done():
			return
		}
	}
}

func (s *sessionService) checkStoredSession(ctx context.Context) {
	if !s.IsAuthenticated() {
		return
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to read stored token", "error", err)
		return
	}
	if token == "" {
		s.collapse(ctx, "stored token missing", false)
		return
	}
	if tokenExpired(token) {
		s.collapse(ctx, "token expired", true)
	}
}

// collapse force-clears the in-memory session; when clearStore is set the
// credential store is wiped as well.
func (s *sessionService) collapse(ctx context.Context, reason string, clearStore bool) {
	s.mu.Lock()
	active := s.session.IsAuthenticated()
	s.session = models.Session{}
	s.mu.Unlock()

	if active {
		s.log.Warn(ctx, "session invalidated", "reason", reason)
	}
	if clearStore {
		if err := s.creds.ClearSession(ctx); err != nil {
			s.log.Error(ctx, "failed to clear credential store", "error", err)
		}
	}
}

// tokenExpired reports whether the bearer parses as a JWT whose exp claim is
// in the past. Opaque tokens never expire client-side; the signature is not
// verified here, the server stays authoritative.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
