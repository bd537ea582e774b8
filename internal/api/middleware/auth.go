package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// Claims is the token payload: the standard registered set plus the role.
// The subject carries the numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	Role models.UserRole `json:"role"`
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth verifies the bearer token and injects the principal. Anything
// past this middleware can assume an authenticated {id, role} pair.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return am.secret, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || !claims.Role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalKey, lifecycle.Principal{ID: uint(userID), Role: claims.Role})
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by RequireAuth.
func PrincipalFrom(c *gin.Context) lifecycle.Principal {
	p, _ := c.Get(principalKey)
	principal, _ := p.(lifecycle.Principal)
	return principal
}
