package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the caller on whose behalf a request is made. It is recorded, not verified.
const ActorHeader = "X-Actor-ID"

// AnonymousActor is recorded when a request carries no actor header.
const AnonymousActor = "anonymous"

// actorKey is the key used to store the acting user's ID in the Gin context.
const actorKey = contextKey("actorID")

// ActorMiddleware copies the actor header into the Gin and request contexts.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = AnonymousActor
		}
		c.Set(string(actorKey), actor)
		ctx := context.WithValue(c.Request.Context(), actorKey, actor)
		c.Request = c.Request.WithContext(WithLogger(ctx, GetLoggerFromCtx(ctx).With(slog.String("actor", actor))))
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user ID from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		// check in the request context as well
		if v, ok := c.Request.Context().Value(actorKey).(string); ok {
			return v, true
		}
		return "", false
	}

	actor, ok := actorVal.(string)
	return actor, ok
}
