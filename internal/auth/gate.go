// Package auth decides who may use the admin pages: credential checks,
// session tokens, and the gate the rest of the app consults.
package auth

// Gate is all the core knows about authentication: whether the current
// caller is authorized, and a way to end the session.
type Gate interface {
	Authorized() bool
	SignOut()
}

type tokenGate struct {
	tokens *Tokens
	claims *Claims
}

// NewGate checks raw once and returns a gate for the request carrying it.
// An empty or invalid token yields a gate that is never authorized.
func NewGate(tokens *Tokens, raw string) Gate {
	g := &tokenGate{tokens: tokens}
	if raw == "" {
		return g
	}
	if claims, err := tokens.Validate(raw); err == nil {
		g.claims = claims
	}
	return g
}

func (g *tokenGate) Authorized() bool {
	if g.claims == nil {
		return false
	}
	// re-check so a sign-out from another request takes effect
	g.tokens.mu.Lock()
	_, revoked := g.tokens.revoked[g.claims.ID]
	g.tokens.mu.Unlock()
	return !revoked
}

func (g *tokenGate) SignOut() {
	if g.claims != nil {
		g.tokens.Revoke(g.claims)
	}
}

// ClaimsOf returns the token claims when the gate is authorized.
func ClaimsOf(g Gate) (*Claims, bool) {
	tg, ok := g.(*tokenGate)
	if !ok || !tg.Authorized() {
		return nil, false
	}
	return tg.claims, true
}

// Denied is a gate that never authorizes.
type Denied struct{}

func (Denied) Authorized() bool { return false }
func (Denied) SignOut()         {}
