package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/libdesk/pkg/auth"
	"github.com/diagnosis/libdesk/pkg/logger"
	"github.com/diagnosis/libdesk/services/desk/internal/domain"
)

var ErrNoSession = errors.New("no active session")

type GateConfig struct {
	Secret   string
	TTL      time.Duration
	Location *time.Location
	Now      func() time.Time
}

// Gate turns credentials into a logged-in workspace and resolves session tokens back to it.
type Gate struct {
	authn  Authenticator
	store  *Store
	secret string
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
}

func NewGate(authn Authenticator, store *Store, cfg GateConfig) *Gate {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Gate{
		authn:  authn,
		store:  store,
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		loc:    cfg.Location,
		now:    cfg.Now,
	}
}

// Today is the current calendar day in the desk's time zone.
func (g *Gate) Today() domain.Date {
	return domain.DateOf(g.now().In(g.loc))
}

func (g *Gate) TTL() time.Duration { return g.ttl }

func (g *Gate) Login(ctx context.Context, username, password string) (*Workspace, string, error) {
	id, err := g.authn.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.WarnContext(ctx, "Login rejected", "username", username)
		}
		return nil, "", err
	}

	issuedAt := g.now().Truncate(time.Second)
	s := Session{
		ID:        uuid.NewString(),
		Username:  id.Username,
		Role:      id.Role,
		LoggedIn:  true,
		IsAdmin:   id.IsAdmin(),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(g.ttl),
	}

	token, err := auth.NewSessionToken(s.ID, s.Username, s.Role, s.IsAdmin, g.secret, issuedAt, g.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	ws := NewWorkspace(s, g.Today())
	g.store.Put(ws)

	logger.InfoContext(ctx, "Login succeeded", "session_id", s.ID, "username", s.Username, "admin", s.IsAdmin)
	return ws, token, nil
}

// Resolve maps a session token to its workspace. Bad, expired or unknown tokens yield ErrNoSession.
func (g *Gate) Resolve(token string) (*Workspace, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := auth.Parse(token, g.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	ws, ok := g.store.Get(claims.SessionID())
	if !ok {
		return nil, ErrNoSession
	}
	return ws, nil
}
