package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request with slog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("uri", c.Request.RequestURI),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}

		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			if len(c.Errors) > 0 {
				attrs = append(attrs, slog.String("err", c.Errors.String()))
			}
			slog.LogAttrs(c.Request.Context(), slog.LevelError, "REQUEST_ERROR", attrs...)
			return
		}

		slog.LogAttrs(c.Request.Context(), slog.LevelInfo, "REQUEST", attrs...)
	}
}
