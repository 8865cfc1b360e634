package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListUsage(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	records, err := s.usageSvc.List(c.Request.Context(), id, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
