// Package authgate decides whether the shopper may see a view.
//
// The session is verified on every navigation to a protected view; nothing
// is cached between paths. A view whose path names a user is shown only to
// that user.
package authgate

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
	"github.com/louisbranch/storefront/internal/services/storefront/nav"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// State is the gate's authorization state.
type State string

const (
	StateLoading      State = "loading"
	StateAuthorized   State = "authorized"
	StateUnauthorized State = "unauthorized"
	// StatePublic marks views that need no session.
	StatePublic State = "public"
)

// Verifier checks the current session.
type Verifier interface {
	VerifySession(ctx context.Context) (domain.Session, error)
}

// Decision is the outcome of one navigation.
type Decision struct {
	Path   string
	State  State
	User   domain.User
	Intent nav.Intent
	// Err explains an Unauthorized decision.
	Err error
	// Superseded is set when a newer navigation started before this one
	// resolved; such decisions are never applied.
	Superseded bool
}

// Gate is safe for concurrent use.
type Gate struct {
	verifier Verifier
	logger   *zap.Logger

	mu      sync.Mutex
	seq     uint64
	current Decision
}

// New builds a gate.
func New(verifier Verifier, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		verifier: verifier,
		logger:   logger,
		current:  Decision{Path: routepath.Root, State: StatePublic, Intent: nav.Render(routepath.ViewLogin, map[string]string{})},
	}
}

// Current returns the latest applied decision.
func (g *Gate) Current() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Navigate resolves path. Protected views move the gate to Loading, verify
// the session and settle on Authorized or Unauthorized.
func (g *Gate) Navigate(ctx context.Context, path string) Decision {
	match := routepath.Resolve(path)

	g.mu.Lock()
	g.seq++
	ticket := g.seq
	if !match.Route.Protected {
		g.current = Decision{Path: path, State: StatePublic, Intent: nav.Render(match.Route.View, match.Params)}
		decision := g.current
		g.mu.Unlock()
		return decision
	}
	g.current = Decision{Path: path, State: StateLoading, Intent: nav.Placeholder()}
	g.mu.Unlock()

	session, err := g.verifier.VerifySession(ctx)
	decision := decide(path, match, session, err)

	g.mu.Lock()
	defer g.mu.Unlock()
	if ticket != g.seq {
		g.logger.Debug("discarded stale verification", zap.String("path", path), zap.Error(apperrors.ErrStaleResponse))
		decision.Superseded = true
		return decision
	}
	g.current = decision
	if decision.State == StateUnauthorized {
		g.logger.Info("navigation denied",
			zap.String("path", path),
			zap.String("code", string(apperrors.CodeOf(decision.Err))),
		)
	}
	return decision
}

// Reset returns the gate to the public landing view and invalidates any
// verification in flight.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.current = Decision{Path: routepath.Root, State: StatePublic, Intent: nav.Render(routepath.ViewLogin, map[string]string{})}
}

func decide(path string, match routepath.Match, session domain.Session, err error) Decision {
	deny := func(cause error) Decision {
		return Decision{Path: path, State: StateUnauthorized, Intent: nav.Redirect(routepath.Root), Err: cause}
	}
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeAuth {
			return deny(err)
		}
		return deny(apperrors.Wrap(apperrors.CodeAuth, "verify session", err))
	}
	if !session.Valid || strings.TrimSpace(session.User.ID) == "" {
		return deny(apperrors.New(apperrors.CodeAuth, "session is not valid"))
	}
	if userParam, ok := match.UserParam(); ok && userParam != session.User.ID {
		return deny(apperrors.WithMetadata(apperrors.CodeAuth, "identity mismatch", map[string]string{
			"path_user":    userParam,
			"session_user": session.User.ID,
		}))
	}
	return Decision{
		Path:   path,
		State:  StateAuthorized,
		User:   session.User,
		Intent: nav.Render(match.Route.View, match.Params),
	}
}
