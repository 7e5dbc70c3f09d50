// Package auth is the peripheral JWT/RBAC gate placed in front of the
// HTTP API's handler chain. It is disabled by default and never
// consulted by the service layer — C5's Go API takes no dependency on
// authentication or authorization.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/golang-jwt/jwt/v5"
)

// Role is a principal's role in the small admin/operator/viewer policy.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Claims is the JWT payload this gate expects: a subject and a role.
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

type contextKey struct{ name string }

var claimsContextKey = &contextKey{"auth-claims"}

// Gate validates bearer tokens with a shared HS256 secret and enforces
// a role->route policy with casbin. A Gate constructed with an empty
// Secret is inert: Middleware becomes a no-op passthrough.
type Gate struct {
	Secret   string
	logger   *slog.Logger
	enforcer *casbin.Enforcer
}

// rbacModel is the small RBAC model: a request is allowed if the
// subject's role is granted the requested action on the requested
// object (HTTP method and route pattern).
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// NewGate builds a Gate with the default admin/operator/viewer policy:
// admins can do anything, operators can read and mutate tasks/projects
// but not delete them or manage workflows, viewers can only read.
func NewGate(secret string, logger *slog.Logger) (*Gate, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("loading rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("creating enforcer: %w", err)
	}

	policies := [][]string{
		{string(RoleAdmin), "/*", "*"},
		{string(RoleOperator), "/tasks*", "GET"},
		{string(RoleOperator), "/tasks*", "POST"},
		{string(RoleOperator), "/tasks*", "PATCH"},
		{string(RoleOperator), "/projects*", "GET"},
		{string(RoleOperator), "/projects*", "POST"},
		{string(RoleViewer), "/tasks*", "GET"},
		{string(RoleViewer), "/projects*", "GET"},
		{string(RoleViewer), "/workflows*", "GET"},
		{string(RoleOperator), "/tasks/*", "GET"},
		{string(RoleOperator), "/tasks/*", "POST"},
		{string(RoleOperator), "/tasks/*", "PATCH"},
		{string(RoleOperator), "/projects/*", "GET"},
		{string(RoleOperator), "/projects/*", "POST"},
		{string(RoleViewer), "/tasks/*", "GET"},
		{string(RoleViewer), "/projects/*", "GET"},
		{string(RoleViewer), "/workflows/*", "GET"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("adding policy %v: %w", p, err)
		}
	}
	roles := [][]string{
		{string(RoleAdmin), string(RoleAdmin)},
		{string(RoleOperator), string(RoleOperator)},
		{string(RoleViewer), string(RoleViewer)},
	}
	for _, g := range roles {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("adding grouping policy %v: %w", g, err)
		}
	}

	return &Gate{Secret: secret, logger: logger, enforcer: e}, nil
}

// Middleware validates the bearer token and enforces the route policy.
// A Gate with no secret is a passthrough, so auth stays opt-in.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	if g == nil || g.Secret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.parseToken(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, `{"error":"Unauthorized","message":"`+err.Error()+`"}`, http.StatusUnauthorized)
			return
		}

		allowed, err := g.enforcer.Enforce(string(claims.Role), r.URL.Path, r.Method)
		if err != nil {
			g.logger.Error("rbac enforce failed", "error", err)
			http.Error(w, `{"error":"StorageError","message":"authorization check failed"}`, http.StatusInternalServerError)
			return
		}
		if !allowed {
			http.Error(w, `{"error":"Forbidden","message":"role lacks permission for this route"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) parseToken(header string) (*Claims, error) {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, errors.New("missing bearer token")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(g.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// ClaimsFromContext returns the validated claims attached by Middleware,
// if any request made it through the gate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(*Claims)
	return c, ok
}
