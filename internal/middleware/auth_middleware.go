package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/pkg/jwt"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated user's information
type UserContext struct {
	UserID uuid.UUID `json:"user_id"`
	Roles  []string  `json:"roles"`
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("AUTH FAILED: Missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			log.Warn("AUTH FAILED: Invalid auth format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if jwtService.IsTokenExpired(tokenString) {
				log.WithError(err).Warn("AUTH FAILED: Token expired")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Access token has expired",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				log.WithError(err).Warn("AUTH FAILED: Invalid token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid access token",
					"code":    "INVALID_TOKEN",
				})
			}
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID: claims.UserID,
			Roles:  claims.Roles,
		})
		c.Next()
	}
}

// RequireRole creates a middleware that checks if user has any of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found. Auth middleware may not be applied.",
				"code":    "MISSING_USER_CONTEXT",
			})
			return
		}

		for _, role := range roles {
			if slices.Contains(userCtx.Roles, role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after AuthMiddleware)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}
