package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"bookstore-server/internal/auth"
	"bookstore-server/internal/managers"
	"bookstore-server/internal/schemas"
	"bookstore-server/internal/utils"
)

// Authenticate guards authenticated-only routes. It validates the session
// JWT from the cookie (or a bearer header) and checks that the login
// session still exists; unauthenticated callers are redirected to login.
func Authenticate(jwtMgr managers.JWTMgr, sessionMgr managers.SessionMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			utils.RedirectToLogin(c)
			return
		}

		claims, err := jwtMgr.ValidateJWT(tokenString)
		if err != nil {
			utils.LogMessageWithFieldsAndError(c, "debug", "Rejecting invalid session token", err)
			utils.RedirectToLogin(c)
			return
		}

		mapClaims, ok := claims.(jwt.MapClaims)
		if !ok {
			utils.RedirectToLogin(c)
			return
		}

		sessionID, _ := mapClaims["jti"].(string)
		session, err := sessionMgr.GetSession(c, sessionID)
		if err != nil {
			utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}
		if session == nil {
			// Session revoked or expired, the JWT alone is not enough
			utils.RedirectToLogin(c)
			return
		}

		c.Set(utils.ClaimsKey.String(), mapClaims)
		c.Set(utils.SessionKey.String(), session)
		c.Next()
	}
}

// RequireCapability rejects authenticated callers whose capability set does
// not grant the given capability.
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := c.Value(utils.SessionKey.String()).(*managers.Session)
		if !ok {
			utils.RedirectToLogin(c)
			return
		}

		caps := auth.CapabilitiesFor(session.IsStaff, session.IsSuperuser)
		if !caps.Has(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, &schemas.ErrorDTO{Error: *schemas.Forbidden})
			return
		}

		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}
