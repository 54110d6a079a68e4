// Package identity is the boundary with the identity collaborator: session
// establishment happens once at startup, change callbacks may fire any
// number of times afterwards (token refreshes re-announce the same user).
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/grocerfront/pkg/config"
)

// Identity is an established user.
type Identity struct {
	UID       string
	Anonymous bool
}

// Callback receives every identity announcement.
type Callback func(Identity)

// Provider is the identity collaborator surface.
type Provider interface {
	// OnChange registers a callback for identity announcements. Callbacks
	// registered after establishment are invoked immediately.
	OnChange(Callback)

	// Establish attempts sign-in exactly once: token-based when a token is
	// supplied, anonymous otherwise. Failure is fatal for the page
	// lifetime; callers must not retry.
	Establish(ctx context.Context, token string) error
}

// LocalProvider implements Provider without a network: anonymous sign-in
// mints a random uid, token sign-in validates an HS256 token and takes the
// uid from its subject.
type LocalProvider struct {
	cfg config.IdentityConfig

	mu          sync.Mutex
	callbacks   []Callback
	established bool
	current     Identity
}

func NewLocalProvider(cfg config.IdentityConfig) *LocalProvider {
	return &LocalProvider{cfg: cfg}
}

func (p *LocalProvider) OnChange(cb Callback) {
	p.mu.Lock()
	established := p.established
	current := p.current
	p.callbacks = append(p.callbacks, cb)
	p.mu.Unlock()

	if established {
		cb(current)
	}
}

func (p *LocalProvider) Establish(_ context.Context, token string) error {
	p.mu.Lock()
	if p.established {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	var id Identity
	if token == "" {
		id = Identity{UID: uuid.NewString(), Anonymous: true}
	} else {
		uid, err := p.subjectFromToken(token)
		if err != nil {
			return err
		}
		id = Identity{UID: uid}
	}

	p.mu.Lock()
	p.established = true
	p.current = id
	callbacks := append([]Callback(nil), p.callbacks...)
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(id)
	}
	return nil
}

func (p *LocalProvider) subjectFromToken(token string) (string, error) {
	if p.cfg.JWTSecret == "" {
		return "", fmt.Errorf("token sign-in requires a configured secret")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(p.cfg.JWTIssuer))
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(p.cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parsing sign-in token: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("sign-in token has no subject")
	}
	return subject, nil
}
