package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	autoprocessdomain "github.com/smallbiznis/specto/internal/autoprocess/domain"
	"go.uber.org/zap"
)

// HandleCommerceWebhook always answers 200. The sender retries on
// non-2xx and the processing outcome is not its concern; failures are
// ours to log and the next product event retries naturally.
func (s *Server) HandleCommerceWebhook(c *gin.Context) {
	var event autoprocessdomain.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		s.log.Warn("malformed webhook payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	result, err := s.autoprocessSvc.Process(c.Request.Context(), event)
	if err != nil {
		s.log.Warn("webhook processing failed",
			zap.String("topic", event.Topic),
			zap.String("site_id", event.SiteID),
			zap.String("product_id", event.ProductID()),
			zap.Error(err),
		)
	} else if result.Outcome == autoprocessdomain.OutcomeProcessed {
		s.log.Info("webhook processed",
			zap.String("site_id", event.SiteID),
			zap.String("product_id", event.ProductID()),
			zap.Int("selected", result.Selected),
			zap.Int("processed", result.Processed),
		)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
