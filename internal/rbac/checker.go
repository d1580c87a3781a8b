package rbac

import (
	"context"
	"strings"
)

// Policy maps a role to the permissions it is granted.
type Policy map[string][]Permission

// Checker answers permission questions against a policy compiled into exact
// grants and resource prefixes.
type Checker struct {
	roles map[string]grants
}

type grants struct {
	all      bool
	exact    map[Permission]struct{}
	prefixes []string
}

func NewChecker(p Policy) *Checker {
	if p == nil {
		p = DefaultPolicy
	}
	c := &Checker{roles: make(map[string]grants, len(p))}
	for role, perms := range p {
		g := grants{exact: map[Permission]struct{}{}}
		for _, perm := range perms {
			switch s := string(perm); {
			case s == string(PermAll):
				g.all = true
			case strings.HasSuffix(s, "*"):
				g.prefixes = append(g.prefixes, strings.TrimSuffix(s, "*"))
			default:
				g.exact[perm] = struct{}{}
			}
		}
		c.roles[role] = g
	}
	return c
}

func (c *Checker) Has(role string, perm Permission) bool {
	g, ok := c.roles[role]
	if !ok {
		return false
	}
	if g.all {
		return true
	}
	if _, ok := g.exact[perm]; ok {
		return true
	}
	for _, pre := range g.prefixes {
		if strings.HasPrefix(string(perm), pre) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...Permission) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

func (c *Checker) All(role string, perms ...Permission) bool {
	for _, p := range perms {
		if !c.Has(role, p) {
			return false
		}
	}
	return len(perms) > 0
}

type roleKey struct{}

// WithRole stores the caller's role for the Require middlewares.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(roleKey{}).(string)
	return s
}
