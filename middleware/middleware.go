package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"farmify-api/models"
	"farmify-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Claims carried inside issued tokens. Role and counters are still resolved
// fresh from the database on every request; is_admin here only documents the
// role at issuance time.
type Claims struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and loads the current user row.
// Expired and tampered tokens are logged as distinct conditions but both
// answer a generic 401.
func AuthMiddleware(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.SendError(c, http.StatusUnauthorized, "Invalid authorization header")
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				log.Printf("Rejected expired token for user %s", claims.UserID)
			default:
				log.Printf("Rejected invalid token: %v", err)
			}
			utils.SendError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Resolve the identity fresh so role changes take effect immediately
		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			utils.SendError(c, http.StatusUnauthorized, "User no longer exists")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("current_user", &user)

		c.Next()
	}
}

// AdminMiddleware requires a resolved identity with the admin flag set.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.SendError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if !user.IsAdmin {
			utils.SendError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware, or nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("current_user")
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SecurityHeaders middleware adds security headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
