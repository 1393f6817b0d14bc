package security

import (
	"net/http"
	"strings"

	"github.com/Ankitshrma25/IMS/pkg/roles"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware validates the bearer token and stores its claims on the
// request context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := ParseJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		c.Set("username", claims["username"])
		c.Next()
	}
}

// Authorize allows the request through only when the actor holds one of
// the listed roles. Admin always passes.
func Authorize(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(c, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}
		c.Next()
	}
}

func HasRole(c *gin.Context, allowed ...roles.Role) bool {
	value, exists := c.Get("role")
	if !exists {
		return false
	}
	role, ok := value.(string)
	if !ok {
		return false
	}
	if roles.Role(role) == roles.Admin {
		return true
	}
	for _, a := range allowed {
		if roles.Role(role) == a {
			return true
		}
	}
	return false
}
