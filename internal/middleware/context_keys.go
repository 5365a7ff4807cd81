package middleware

import (
	"context"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const actingUserKey = contextKey("actingUser")

// WithActingUser stores the resolved caller in ctx.
func WithActingUser(ctx context.Context, actor domain.ActingUser) context.Context {
	return context.WithValue(ctx, actingUserKey, actor)
}

// GetActingUser retrieves the caller resolved by AuthMiddleware.
func GetActingUser(c *gin.Context) (domain.ActingUser, bool) {
	actor, ok := c.Request.Context().Value(actingUserKey).(domain.ActingUser)
	if !ok || actor.UserID == "" {
		return domain.ActingUser{}, false
	}
	return actor, true
}

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	actor, ok := GetActingUser(c)
	if !ok {
		return "", false
	}
	return actor.UserID, true
}
