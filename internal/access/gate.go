// Package access implements the session access gate: the state machine that
// blocks expired premium accounts and enforces the free-tier creation caps.
package access

import (
	"errors"
	"time"

	"github.com/Glivan2903/minhagrana/internal/core"
)

// State is where an account sits in the gate's state machine:
// anonymous -> free -> premium -> blocked. The premium -> blocked transition
// is automatic once wall-clock time passes the stored expiration; there is no
// automatic way back, only administrative re-activation.
type State string

const (
	Anonymous State = "anonymous"
	Free      State = "free"
	Premium   State = "premium"
	Blocked   State = "blocked"
)

// FreeTierLimit caps how many transactions and how many future entries a free
// account may hold. Checked before any insert reaches the store.
const FreeTierLimit = 5

var (
	// ErrAccessExpired marks a premium account past its expiration date.
	// The caller must invalidate the active session and route the user to
	// the blocked screen.
	ErrAccessExpired = errors.New("premium access expired")

	// ErrFreeTierLimit marks a create attempt past the free-tier cap. It is
	// an expected, recoverable condition surfaced as an upgrade prompt.
	ErrFreeTierLimit = errors.New("free tier limit reached")
)

// Gate evaluates accounts against the access rules. The clock is injectable
// for tests; production uses time.Now.
type Gate struct {
	now func() time.Time
}

func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// NewGateAt builds a gate with a fixed clock.
func NewGateAt(now func() time.Time) *Gate {
	return &Gate{now: now}
}

// Evaluate classifies the account. Called on login and on every
// authenticated request.
func (g *Gate) Evaluate(acct core.Account) State {
	if acct.Status == core.AccountPremium {
		if !acct.ExpiresAt.IsEmpty() && g.now().After(acct.ExpiresAt.Time) {
			return Blocked
		}
		return Premium
	}
	return Free
}

// Authorize returns ErrAccessExpired for blocked accounts and nil otherwise.
func (g *Gate) Authorize(acct core.Account) error {
	if g.Evaluate(acct) == Blocked {
		return ErrAccessExpired
	}
	return nil
}

// AllowCreate enforces the free-tier cap given how many rows of the resource
// the account already owns. Premium accounts are uncapped.
func (g *Gate) AllowCreate(acct core.Account, existing int) error {
	if err := g.Authorize(acct); err != nil {
		return err
	}
	if acct.Status == core.AccountFree && existing >= FreeTierLimit {
		return ErrFreeTierLimit
	}
	return nil
}
