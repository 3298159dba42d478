package httpx

import (
	"context"
	"slices"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// PrincipalKind says how a caller authenticated.
type PrincipalKind string

const (
	PrincipalAgent    PrincipalKind = "agent"
	PrincipalOperator PrincipalKind = "operator"
)

// Principal is the authenticated caller. For agents Subject is the agent id;
// for operators it is the token subject.
type Principal struct {
	Kind    PrincipalKind
	Subject string
	Scopes  []string
}

func (p Principal) IsAgent() bool    { return p.Kind == PrincipalAgent }
func (p Principal) IsOperator() bool { return p.Kind == PrincipalOperator }

// HasScope reports whether an operator principal holds scope. Agents hold none.
func (p Principal) HasScope(scope string) bool {
	return p.IsOperator() && slices.Contains(p.Scopes, scope)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}
