package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homework-sync-api/internal/core/auth"
	"homework-sync-api/internal/identity"
	resp "homework-sync-api/internal/transport/http/response"
)

// ContextUserID is where the resolved user id lives on the gin context.
const ContextUserID = "userId"

// Authenticate resolves the bearer credential to a user and guarantees
// the user row exists before any handler runs. Two accepted shapes:
// a first-party session JWT, or a raw provider ID token (verified and
// upserted on the spot). Either way updated_at is refreshed, so it
// doubles as last-seen.
func Authenticate(jwter *auth.JWTer, verifier identity.TokenVerifier, resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		raw := strings.TrimPrefix(ah, "Bearer ")

		if claims, err := jwter.Parse(raw); err == nil {
			u, err := resolver.Touch(c.Request.Context(), claims.UID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unknown user"))
				return
			}
			c.Set(ContextUserID, u.ID)
			c.Next()
			return
		}

		id, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		u, err := resolver.Resolve(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set(ContextUserID, u.ID)
		c.Next()
	}
}
