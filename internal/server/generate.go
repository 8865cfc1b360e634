package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	generationdomain "github.com/smallbiznis/specto/internal/generation/domain"
)

type generateBatchRequest struct {
	Items []generationdomain.BatchItem `json:"items"`
}

type generateBatchResponse struct {
	SuccessCount int                          `json:"success_count"`
	Message      string                       `json:"message"`
	Errors       []generationdomain.ItemError `json:"errors,omitempty"`
}

func (s *Server) GenerateBatch(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req generateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" ||
			strings.TrimSpace(item.ImageID) == "" ||
			strings.TrimSpace(item.ImageURL) == "" {
			AbortWithError(c, newValidationError(
				fmt.Sprintf("items[%d]", i),
				"invalid_item",
				"product_id, image_id and image_url are required",
			))
			return
		}
	}

	result, err := s.generationSvc.GenerateBatch(c.Request.Context(), id, req.Items)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": generateBatchResponse{
		SuccessCount: result.SuccessCount,
		Message:      fmt.Sprintf("generated alt text for %d of %d images", result.SuccessCount, len(req.Items)),
		Errors:       result.Failed,
	}})
}
