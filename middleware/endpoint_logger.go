package middleware

import (
	"time"

	"github.com/ariebrainware/psych-practice/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger logs every request through util.LogRequest once the
// handler chain has finished.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		userID, _ := GetUserID(c)
		details := map[string]interface{}{
			"route": c.FullPath(),
			"query": c.Request.URL.RawQuery,
		}
		if role, ok := GetRole(c); ok {
			details["role"] = role
		}
		if len(c.Errors) > 0 {
			details["errors"] = c.Errors.Errors()
		}

		util.LogRequest(util.RequestEvent{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			Duration:  time.Since(start),
			UserID:    userID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Details:   details,
		})
	}
}
