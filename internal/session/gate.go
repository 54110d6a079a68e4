// Package session tracks whether an authenticated identity is established
// and releases exactly one initial subscription pass once it is.
package session

import (
	"context"
	"sync"

	"github.com/angelmondragon/grocerfront/pkg/identity"

	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
)

// Gate latches from pending to established once per page lifetime.
type Gate struct {
	provider identity.Provider

	// onReady fires at most once, on the first identity announcement. The
	// latch is a plain boolean on purpose: subscriptions are external
	// resources with no cheap existence check, so re-checking them is not
	// an option.
	onReady func(identity.Identity)

	// onFatal fires when establishment fails; the error is terminal for
	// the page and must be surfaced as a blocking message.
	onFatal func(error)

	mu          sync.Mutex
	established bool
	current     identity.Identity
	fetched     bool
	fatal       error
}

func New(provider identity.Provider, onReady func(identity.Identity), onFatal func(error)) *Gate {
	g := &Gate{
		provider: provider,
		onReady:  onReady,
		onFatal:  onFatal,
	}
	provider.OnChange(g.handleChange)
	return g
}

// Start attempts sign-in once. Identity announcements arrive through the
// provider callback, which may also fire later on token refresh.
func (g *Gate) Start(ctx context.Context, token string) {
	if err := g.provider.Establish(ctx, token); err != nil {
		fatal := pkgerrors.Wrap(pkgerrors.CodeSessionFatal, err, "session establishment failed")

		g.mu.Lock()
		g.fatal = fatal
		onFatal := g.onFatal
		g.mu.Unlock()

		if onFatal != nil {
			onFatal(fatal)
		}
	}
}

func (g *Gate) handleChange(id identity.Identity) {
	g.mu.Lock()
	g.established = true
	g.current = id
	fire := !g.fetched
	g.fetched = true
	onReady := g.onReady
	g.mu.Unlock()

	if fire && onReady != nil {
		onReady(id)
	}
}

// Established reports whether an identity has been announced.
func (g *Gate) Established() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.established
}

// Identity returns the current identity; zero value while pending.
func (g *Gate) Identity() identity.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// FatalErr returns the terminal establishment error, if any.
func (g *Gate) FatalErr() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fatal
}
