package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
)

func (s *Server) GetSettings(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	settings, err := s.storeSvc.GetSettings(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	remaining, used, err := s.creditsSvc.Balance(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"settings":          settings,
		"credits_remaining": remaining,
		"credits_used":      used,
	}})
}

func (s *Server) UpdateSettings(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req storedomain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	normalized := storedomain.NormalizeSettings(req)
	if err := s.storeSvc.UpdateSettings(c.Request.Context(), id, normalized); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": normalized})
}
