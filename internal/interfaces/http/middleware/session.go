package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamo-store/backend/internal/infrastructure/auth"
	"github.com/mamo-store/backend/internal/interfaces/http/dto"
)

// Context keys for session claims
const (
	ContextUserID = "session_user_id"
	ContextName   = "session_name"
	ContextAdmin  = "session_admin"
)

// Session parses a bearer session token when one is presented. Requests
// without a token pass through untouched (login is phone-only and carries no
// credential), but a token that is present and invalid is rejected.
func Session(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeTokenInvalid, "Malformed authorization header"))
			return
		}

		claims, err := sessions.Verify(token)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if err == auth.ErrExpiredToken {
				code = dto.ErrCodeTokenExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, "Invalid session token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextName, claims.Name)
		c.Set(ContextAdmin, claims.Admin)
		c.Next()
	}
}

// GetSessionUserID returns the authenticated user id, empty for anonymous requests
func GetSessionUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// IsSessionAdmin reports whether the request carries an admin-elevated session
func IsSessionAdmin(c *gin.Context) bool {
	return c.GetBool(ContextAdmin)
}

// AdminRequired rejects requests whose session was not PIN-elevated
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsSessionAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin session required"))
			return
		}
		c.Next()
	}
}
