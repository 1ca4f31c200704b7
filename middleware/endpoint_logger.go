package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger records each HTTP request as an audit event.
func EndpointCallLogger(audit *util.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			details["query"] = q
		}

		audit.Log(util.AuditEvent{
			EventType:     classifyEvent(c.Request.Method, c.FullPath(), status),
			AppointmentID: GetAppointmentID(c),
			IP:            c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			Message:       fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:       details,
		})
	}
}

func classifyEvent(method, route string, status int) util.AuditEventType {
	if status == http.StatusTooManyRequests {
		return util.EventRateLimitExceeded
	}
	if status >= http.StatusBadRequest {
		return util.EventRequestRejected
	}
	switch {
	case method == http.MethodGet && route == "/appointments":
		return util.EventAppointmentsListed
	case method == http.MethodGet && route == "/appointments/:id":
		return util.EventAppointmentRead
	case method == http.MethodPost && route == "/appointments":
		return util.EventAppointmentCreated
	case method == http.MethodPut && route == "/appointments/:id":
		return util.EventAppointmentUpdated
	case method == http.MethodDelete && route == "/appointments/:id":
		return util.EventAppointmentDeleted
	}
	return util.EventEndpointCall
}
