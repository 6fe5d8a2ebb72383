package middleware

import (
	"net/url"
	"time"

	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

const loggerKey = "logger"

// quietPaths are polled by load balancers and only logged at debug.
var quietPaths = map[string]bool{
	"/health": true,
}

// redactedParams never reach the log. The tracking socket carries its
// bearer token in the query string.
var redactedParams = []string{"token", "session_id"}

// LoggingMiddleware tags every request with a request id and logs its outcome.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
		})
		c.Set(loggerKey, log)

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"bytes":      c.Writer.Size(),
		}
		if q := redactQuery(c.Request.URL.RawQuery); q != "" {
			fields["query"] = q
		}
		if route := c.FullPath(); route != "" {
			fields["route"] = route
		}
		if sess, ok := GetSession(c); ok {
			fields["identity_id"] = sess.IdentityID()
			fields["demo"] = sess.IsDemo()
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			log.Error("Request failed", nil, fields)
		case status >= 400:
			log.Warn("Request rejected", fields)
		case quietPaths[path]:
			log.Debug("Request completed", fields)
		default:
			log.Info("Request completed", fields)
		}
	}
}

func redactQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "<unparseable>"
	}
	for _, key := range redactedParams {
		if values.Has(key) {
			values.Set(key, "REDACTED")
		}
	}
	return values.Encode()
}

// GetLoggerFromContext returns the request-scoped logger, or the global one
// outside of LoggingMiddleware.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if v, exists := c.Get(loggerKey); exists {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
