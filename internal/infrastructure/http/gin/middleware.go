package gin

import (
	"time"

	ginlib "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"meal_storefront/pkg/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// RequestContext puts the request id and cart session id into the request
// context so every logger.WithContext call picks them up.
func RequestContext() ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := logger.ContextWithRequestID(c.Request.Context(), requestID)
		if sessionID := c.GetHeader(HeaderSessionID); sessionID != "" {
			ctx = logger.ContextWithSessionID(ctx, sessionID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func AccessLog(log logger.Logger) ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		start := time.Now()
		c.Next()

		log.WithContext(c.Request.Context()).Info("http request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}
