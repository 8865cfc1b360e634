package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	applydomain "github.com/smallbiznis/specto/internal/apply/domain"
)

type applyBatchRequest struct {
	Items []applydomain.ApplyItem `json:"items"`
}

func (s *Server) ApplyBatch(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req applyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.applySvc.ApplyBatch(c.Request.Context(), id, req.Items)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

type editAltTextRequest struct {
	ProductID string `json:"product_id"`
	ImageID   string `json:"image_id"`
	AltText   string `json:"alt_text"`
}

func (s *Server) EditAltText(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req editAltTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.ImageID) == "" {
		AbortWithError(c, newValidationError("request", "invalid_key", "product_id and image_id are required"))
		return
	}

	if err := s.applySvc.Edit(c.Request.Context(), id, req.ProductID, req.ImageID, req.AltText); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
