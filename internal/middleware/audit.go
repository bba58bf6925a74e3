package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/licensing-api/internal/models"
)

type auditWriter interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// Audit records an audit row after each successful admin mutation. Writes are
// best effort; a failed audit insert never fails the admin response.
func Audit(repo auditWriter, logger *zap.Logger, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var resourceID *string
		for _, name := range []string{"id", "studentId"} {
			if v := c.Param(name); v != "" {
				resourceID = &v
				break
			}
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		entry := &models.AuditLog{
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValues:  body,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		}
		if err := repo.Create(c.Request.Context(), entry); err != nil && logger != nil {
			logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
		}
	}
}
