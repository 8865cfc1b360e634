package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	alttextdomain "github.com/smallbiznis/specto/internal/alttext/domain"
)

type productImageView struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	AltText      string `json:"alt_text"`
	HasGenerated bool   `json:"has_generated"`
	Status       string `json:"status,omitempty"`
}

type productView struct {
	ID     string             `json:"id"`
	Title  string             `json:"title"`
	Images []productImageView `json:"images"`
}

type productStats struct {
	TotalImages      int   `json:"total_images"`
	MissingAltText   int   `json:"missing_alt_text"`
	GeneratedTotal   int64 `json:"generated_total"`
	AppliedTotal     int64 `json:"applied_total"`
	CreditsRemaining int64 `json:"credits_remaining"`
}

// ListProducts merges the remote catalog page with the local generation
// state so the UI can show which images already have text waiting.
func (s *Server) ListProducts(c *gin.Context) {
	id, err := storeID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		Cursor   string `form:"cursor"`
		PageSize int    `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	store, err := s.storeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := s.commerce.ListProducts(c.Request.Context(), store.AccessToken, strings.TrimSpace(query.Cursor), query.PageSize)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	productIDs := make([]string, 0, len(page.Products))
	for _, p := range page.Products {
		productIDs = append(productIDs, p.ID)
	}

	records, err := s.alttextSvc.ListByProductIDs(c.Request.Context(), id, productIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	byImage := make(map[string]*alttextdomain.AltTextRecord, len(records))
	for _, r := range records {
		byImage[r.ProductID+"/"+r.ImageID] = r
	}

	total, applied, err := s.alttextSvc.CountByStore(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	stats := productStats{
		GeneratedTotal:   total,
		AppliedTotal:     applied,
		CreditsRemaining: store.CreditsRemaining,
	}
	products := make([]productView, 0, len(page.Products))
	for _, p := range page.Products {
		view := productView{ID: p.ID, Title: p.Title, Images: make([]productImageView, 0, len(p.Images))}
		for _, img := range p.Images {
			stats.TotalImages++
			if strings.TrimSpace(img.AltText) == "" {
				stats.MissingAltText++
			}
			iv := productImageView{ID: img.ID, URL: img.URL, AltText: img.AltText}
			if record, ok := byImage[p.ID+"/"+img.ID]; ok {
				iv.HasGenerated = true
				iv.Status = string(record.Status)
			}
			view.Images = append(view.Images, iv)
		}
		products = append(products, view)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"products":      products,
		"next_cursor":   page.NextCursor,
		"has_next_page": page.HasNextPage,
		"stats":         stats,
	}})
}
