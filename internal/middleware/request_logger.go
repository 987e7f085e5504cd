package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/utils"
)

// RequestLogger logs every HTTP request once it completes
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		client := utils.ParseUserAgent(c.Request.UserAgent())
		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          utils.GetRealIP(c),
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_kind": client.Kind,
			"platform":    client.Platform,
			"has_auth":    c.GetHeader("Authorization") != "",
		}
		if userCtx, ok := GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
