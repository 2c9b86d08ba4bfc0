package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/seed-api/internal/logging"
)

const (
	RequestIDHeader = "X-Request-Id"
	CtxRequestID    = "request_id"
)

// RequestID ensures every request has a stable request ID. The X-Request-Id
// header is reused when present; otherwise a new ID is generated. The ID is
// stored in the Gin context, tagged onto the request-scoped logger, and echoed
// back in the response header. One access log line is written per request,
// carrying the caller's uid once authentication has run.
func RequestID(base *slog.Logger) gin.HandlerFunc {
	if base == nil {
		base = slog.Default()
	}
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if strings.TrimSpace(rid) == "" {
			rid = newRequestID()
		}

		l := base.With(CtxRequestID, rid)

		c.Set(CtxRequestID, rid)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), l))

		c.Writer.Header().Set(RequestIDHeader, rid)

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if uid := c.GetString(CtxFirebaseUID); uid != "" {
			attrs = append(attrs, "uid", uid)
		}
		l.Info("request", attrs...)
	}
}

func newRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	// fallback (should be rare)
	return time.Now().Format("20060102T150405.000000000")
}
