// Package authgin wires the authorization core and the record handlers into
// a gin router.
package authgin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/auth"
)

// Authorizer is the decision-making contract of auth.Verifier.
type Authorizer interface {
	Authorize(ctx context.Context, authorizationHeader, requiredPermission string) auth.Decision
}

const claimsKey = "auth.claims"

// RequirePermission gates a route behind a permission. The raw Authorization
// header and the required permission go to the core; the decision's reason
// picks the status code and error envelope. Verified claims are stored on
// the context for handlers.
func RequirePermission(az Authorizer, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := az.Authorize(c.Request.Context(), c.GetHeader("Authorization"), permission)
		if !decision.Allowed {
			ginutil.Error(c, statusFor(decision.Reason), decision.Reason.Message())
			return
		}
		c.Set(claimsKey, decision.Claims)
		c.Next()
	}
}

// ClaimsFromGin returns the verified token claims stored by
// RequirePermission.
func ClaimsFromGin(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// statusFor maps a decision reason class to an HTTP status. The reason
// itself never names a status; that mapping lives here.
func statusFor(reason auth.Reason) int {
	switch reason.Class() {
	case auth.ClassForbidden:
		return http.StatusForbidden
	case auth.ClassMisconfigured:
		// A token minted without RBAC means the issuer tenant is
		// misconfigured, not that the caller lacks rights.
		return http.StatusBadRequest
	case auth.ClassUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnauthorized
	}
}
