package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emmiamia/nourishsteps/utils"
)

// RequestID propagates an inbound X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(utils.RequestIDKey)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		ctx.Set(utils.RequestIDKey, id)
		ctx.Header(utils.RequestIDKey, id)
		ctx.Next()
	}
}
