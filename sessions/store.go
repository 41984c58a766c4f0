package sessions

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/jrsteele09/go-shop-client/storage"
	"github.com/jrsteele09/go-shop-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Store owns the client session. The session changes only through Initialize,
// Login and Logout (Expire is a Logout that leaves a notice behind).
type Store struct {
	repo      storage.Repo
	inspector *token.Inspector

	mu      sync.RWMutex
	session Session
	notice  string

	initOnce sync.Once
	initErr  error
}

var _ oauth2.TokenSource = (*Store)(nil)

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithInspector sets the token inspector used to validate tokens.
func WithInspector(inspector *token.Inspector) StoreOption {
	return func(s *Store) {
		s.inspector = inspector
	}
}

// NewStore creates an uninitialized store over the durable repo.
func NewStore(repo storage.Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] storage repo is required")
	}
	s := &Store{
		repo:    repo,
		session: initialSession(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.inspector == nil {
		s.inspector = token.NewInspector()
	}
	return s, nil
}

// Initialize restores the session from the persisted token. It runs once per
// store; later calls return the first call's result. A token that fails
// validation is discarded from durable storage.
func (s *Store) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.initialize(ctx)
	})
	return s.initErr
}

func (s *Store) initialize(ctx context.Context) error {
	s.mu.Lock()
	s.session = Session{State: StateLoading, IsLoading: true}
	s.mu.Unlock()

	rawToken, err := s.repo.Get(storage.KeyToken)
	if err != nil {
		s.set(anonymousSession())
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		log.Error().Err(err).Msg("reading persisted token")
		return errors.Wrapf(apperrors.ErrStorage, "[Store.Initialize] %s", err.Error())
	}

	claims, err := s.inspector.Validate(ctx, rawToken)
	if err != nil {
		log.Warn().Err(err).Msg("discarding persisted token")
		s.set(anonymousSession())
		if rmErr := s.repo.Remove(storage.KeyToken); rmErr != nil {
			return errors.Wrapf(apperrors.ErrStorage, "[Store.Initialize] remove token: %s", rmErr.Error())
		}
		return nil
	}

	s.set(authenticatedSession(rawToken, claims))
	log.Debug().Str("email", claims.Email).Msg("session restored")
	return nil
}

// Login validates rawToken and, if it is usable, persists it and authenticates
// the session. On any failure the session is left unchanged.
func (s *Store) Login(ctx context.Context, rawToken string) error {
	claims, err := s.inspector.Validate(ctx, rawToken)
	if err != nil {
		log.Warn().Err(err).Msg("login rejected")
		return errors.Wrap(err, "[Store.Login] validate")
	}

	if err := s.repo.Set(storage.KeyToken, rawToken); err != nil {
		return errors.Wrapf(apperrors.ErrStorage, "[Store.Login] persist token: %s", err.Error())
	}

	s.set(authenticatedSession(rawToken, claims))
	log.Info().Str("email", claims.Email).Str("role", claims.Role).Msg("logged in")
	return nil
}

// Logout discards the persisted token and makes the session anonymous. The
// in-memory session is reset even if durable storage fails.
func (s *Store) Logout() error {
	s.set(anonymousSession())
	if err := s.repo.Remove(storage.KeyToken); err != nil {
		return errors.Wrapf(apperrors.ErrStorage, "[Store.Logout] remove token: %s", err.Error())
	}
	return nil
}

// Expire is a forced logout after the remote services rejected the token.
func (s *Store) Expire() error {
	s.mu.Lock()
	s.notice = apperrors.ErrSessionExpired.Error()
	s.mu.Unlock()
	log.Warn().Msg("session expired")
	return s.Logout()
}

// Notice returns and clears the pending user-visible notice, if any.
func (s *Store) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

// Session returns a snapshot of the current session.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token implements oauth2.TokenSource so HTTP clients can attach the bearer
// token at request time. A token found expired here expires the session.
func (s *Store) Token() (*oauth2.Token, error) {
	sess := s.Session()
	if !sess.IsAuthenticated {
		return nil, errors.Wrap(apperrors.ErrNotAuthenticated, "[Store.Token]")
	}
	if sess.User.Expired(s.inspector.Now()) {
		_ = s.Expire()
		return nil, errors.Wrap(apperrors.ErrSessionExpired, "[Store.Token]")
	}
	return &oauth2.Token{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
		Expiry:      sess.User.ExpiresAt,
	}, nil
}

func (s *Store) set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}
