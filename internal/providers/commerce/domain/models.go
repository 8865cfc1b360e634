package domain

import (
	"context"
	"errors"
)

// Image is a product image as known by the remote host.
type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Product is the remote host's product shape.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Images      []Image  `json:"images"`
}

// ProductsPage is one page of a cursor-paginated product listing.
type ProductsPage struct {
	Products    []Product `json:"products"`
	NextCursor  string    `json:"nextCursor"`
	HasNextPage bool      `json:"hasNextPage"`
}

// Token is the result of an OAuth code exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Website identifies the connected remote site.
type Website struct {
	SiteID   string
	SiteName string
}

// Client is the remote image host boundary. Calls may fail with transient
// network errors; callers surface those per item and never retry here.
//
// UpdateImageAltText is a read-modify-write: the host only supports
// replacing a product's whole image list, so the current product is fetched
// and re-posted with the target image patched. Concurrent writers to the
// same product can lose updates; the auto-processor serializes per store to
// narrow that window, but the host offers no conditional update to close it.
type Client interface {
	GetProduct(ctx context.Context, accessToken, productID string) (*Product, error)
	ListProducts(ctx context.Context, accessToken, cursor string, pageSize int) (*ProductsPage, error)
	UpdateImageAltText(ctx context.Context, accessToken, productID, imageID, altText string) error
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetWebsite(ctx context.Context, accessToken string) (*Website, error)
}

var (
	ErrMissingCredentials = errors.New("commerce_credentials_missing")
	ErrProductNotFound    = errors.New("commerce_product_not_found")
)
