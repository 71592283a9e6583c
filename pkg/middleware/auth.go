package middleware

import (
	"github.com/gin-gonic/gin"

	"incubator/pkg/apperr"
	"incubator/pkg/logging"
	"incubator/pkg/response"
	"incubator/pkg/token"
)

const (
	claimsKey   = "auth.claims"
	identityKey = "auth.identity"
)

// AccessVerifier is satisfied by *token.Service.
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) (*token.AccessClaims, error)
}

// Authenticate requires a valid, unrevoked bearer access token. It never
// touches the database.
func Authenticate(verifier AccessVerifier, denylist token.Denylist) gin.HandlerFunc {
	if denylist == nil {
		denylist = token.NopDenylist{}
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.SendError(c, apperr.Unauthenticated("No token provided"))
			return
		}
		raw, err := token.ExtractBearer(header)
		if err != nil {
			response.SendError(c, apperr.Unauthenticated("No token provided"))
			return
		}

		claims, err := verifier.VerifyAccessToken(raw)
		if err != nil {
			response.SendError(c, apperr.Unauthenticated("Invalid token"))
			return
		}

		revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			response.SendError(c, apperr.Internal("Internal server error", err))
			return
		}
		if revoked {
			response.SendError(c, apperr.Unauthenticated("Token has been revoked"))
			return
		}

		identity := claims.Identity()
		c.Set(claimsKey, claims)
		c.Set(identityKey, identity)
		c.Set(logging.IdentityKey, string(identity.Role())+":"+identity.UserID())
		c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(role token.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.SendError(c, apperr.Unauthenticated("No token provided"))
			return
		}
		if identity.Role() != role {
			response.SendError(c, apperr.Forbidden())
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(token.Identity)
	return identity, ok
}

func ClaimsFrom(c *gin.Context) (*token.AccessClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.AccessClaims)
	return claims, ok
}
