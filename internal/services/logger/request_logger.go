package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// RequestLine formats an access-log entry as "[timestamp] METHOD URL from IP".
func RequestLine(at time.Time, method, uri, ip string) string {
	return fmt.Sprintf("[%s] %s %s from %s", at.UTC().Format(isoMillis), method, uri, ip)
}

// RequestLogger records every incoming request before it is handled. The file write
// goes through a buffered zap core so the handler never waits on disk, and a failed
// write is dropped.
func RequestLogger(file *zap.Logger, console zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		line := RequestLine(time.Now(), c.Request.Method, c.Request.URL.RequestURI(), c.ClientIP())

		console.Info().Msg(line)
		file.Info(line)

		c.Next()
	}
}
