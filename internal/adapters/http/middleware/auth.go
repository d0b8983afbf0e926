package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/platform/logging"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// Gin context keys set by Identity.
const (
	ContextKeyClaims = "claims"
	ContextKeyOwner  = "owner"
)

const (
	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
)

// Claims are the agent identity the gateway forwards after validating the
// token. The service never sees the token itself.
type Claims struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the agent holds role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ExtractClaims reads the gateway headers named in cfg. Roles are comma
// separated.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subject, roles := defaultSubjectHeader, defaultRolesHeader

	if cfg != nil {
		subject = orDefault(cfg.SubjectHeader, subject)
		roles = orDefault(cfg.RolesHeader, roles)
	}

	return &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subject)),
		Roles:   parseCommaSeparated(c.GetHeader(roles)),
	}
}

// Identity attaches the caller's claims to every request. Anonymous callers
// pass through with empty claims.
//
// An identified agent becomes the feature flag user and is added to the
// request logger. When the lists.agent-scoped flag is on for that agent, the
// agent id is also the owner of recent quotes and favorites; otherwise all
// agents share one list.
func Identity(cfg *config.AuthConfig, flags ports.FeatureFlags) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ExtractClaims(c, cfg)
		c.Set(ContextKeyClaims, claims)

		ctx := c.Request.Context()

		var owner string

		if claims.Subject != "" {
			ctx = ports.WithFeatureFlagUser(ctx, &ports.FeatureFlagUser{ID: claims.Subject, Roles: claims.Roles})
			ctx = logging.WithAgent(ctx, claims.Subject, strings.Join(claims.Roles, ","))

			if flags != nil && flags.IsEnabled(ctx, ports.FlagAgentScopedLists, false) {
				owner = claims.Subject
			}

			c.Request = c.Request.WithContext(ctx)
		}

		c.Set(ContextKeyOwner, owner)
		c.Next()
	}
}

// GetClaims returns the claims set by Identity, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	return nil
}

// Owner returns the list owner for the request; "" is the shared list.
func Owner(c *gin.Context) string {
	return c.GetString(ContextKeyOwner)
}

// RequireRole rejects anonymous callers with 401 and callers without role
// with 403.
func RequireRole(cfg *config.AuthConfig, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			claims = ExtractClaims(c, cfg)
			c.Set(ContextKeyClaims, claims)
		}

		if claims.Subject == "" {
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "authentication required")
			return
		}

		if !claims.HasRole(role) {
			logging.FromContext(c.Request.Context()).WarnContext(c.Request.Context(), "role check failed",
				slog.String("required_role", role),
				slog.String("path", c.FullPath()),
			)
			dto.AbortWithCode(c, dto.ErrorCodeForbidden, "role "+role+" required")

			return
		}

		c.Next()
	}
}

func parseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}

	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
