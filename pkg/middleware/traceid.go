package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"betafeedback/pkg/logging"
	"betafeedback/pkg/utils"
)

const TraceIDHeader = "X-Trace-ID"

// TraceIDMiddleware tags every request with an id, reusing a well formed
// incoming X-Trace-ID so calls can be followed across services.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set(utils.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Next()
	}
}
