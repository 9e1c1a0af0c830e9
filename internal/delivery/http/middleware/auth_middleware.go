package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"go-candidate-scout/internal/delivery/http/response"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/auth"
	"go-candidate-scout/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates a bearer token and scopes the request to its subject.
// HS256 tokens are checked against secret and RS256 tokens against jwks. With
// neither configured every caller shares the default scope.
func AuthMiddleware(secret string, jwks *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" && jwks == nil {
			c.Set(string(domain.KeyScope), domain.DefaultScope)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				// HS256 - Use Secret
				if secret == "" {
					return nil, fmt.Errorf("HS256 token received but AUTH_JWT_SECRET is not configured")
				}
				return []byte(secret), nil
			}

			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
				// RS256 - Use JWKS
				if jwks == nil {
					return nil, fmt.Errorf("RS256 token received but AUTH_JWKS_URL is not configured")
				}
				return jwks.KeyFunc(token)
			}

			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}, jwt.WithValidMethods([]string{"HS256", "RS256"}))

		if err != nil || !token.Valid {
			logger.Log.Warn("Token validation failed", "ip", c.ClientIP(), "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyScope), sub)
		c.Request = c.Request.WithContext(domain.WithScope(c.Request.Context(), sub))

		c.Next()
	}
}
