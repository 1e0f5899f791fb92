package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Identity is set by the API gateway after it has authenticated the caller.
type Identity struct {
	ClientID string
	IsStaff  bool
}

type identityKey struct{}

const (
	HeaderClientID = "X-Client-ID"
	HeaderIsStaff  = "X-Client-Staff"
)

// Middleware copies the gateway identity headers into the request context and rejects
// requests that carry none.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity{ClientID: c.GetHeader(HeaderClientID)}
		if staff, err := strconv.ParseBool(c.GetHeader(HeaderIsStaff)); err == nil {
			id.IsStaff = staff
		}
		if id.ClientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing client identity"})
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
