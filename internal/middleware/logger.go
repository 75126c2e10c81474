package middleware

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessLog is where CustomLoggerMiddleware writes.
var AccessLog io.Writer = os.Stdout

// CustomLoggerMiddleware creates a custom logging middleware that logs HTTP requests in simple text format
func CustomLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()

		// Process request
		c.Next()

		latency := time.Since(start)

		role := string(CurrentRole(c))
		if role == "" {
			role = "-"
		}

		fmt.Fprintf(AccessLog, "[API] %s | %s | %d | %s | %s | Role: %s\n",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency.String(),
			c.ClientIP(),
			role,
		)
	}
}
