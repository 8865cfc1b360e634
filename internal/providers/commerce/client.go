// Package commerce implements the remote image host client against the
// Squarespace Commerce API v1.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/specto/internal/config"
	commercedomain "github.com/smallbiznis/specto/internal/providers/commerce/domain"
	"go.uber.org/zap"
)

const userAgent = "Specto-AltText/1.0"

type Client struct {
	apiBase      string
	loginBase    string
	clientID     string
	clientSecret string
	redirectURL  string
	client       *http.Client
	log          *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) commercedomain.Client {
	return &Client{
		apiBase:      strings.TrimRight(cfg.CommerceAPIBase, "/"),
		loginBase:    strings.TrimRight(cfg.CommerceLoginBase, "/"),
		clientID:     cfg.CommerceClientID,
		clientSecret: cfg.CommerceClientSecret,
		redirectURL:  cfg.CommerceRedirectURL,
		client:       &http.Client{Timeout: 20 * time.Second},
		log:          log.Named("commerce.client"),
	}
}

type rawImage struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	AltText      string `json:"altText"`
	OriginalSize *struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"originalSize"`
}

type rawProduct struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Images      []rawImage `json:"images"`
}

type rawProductsPage struct {
	Products   []rawProduct `json:"products"`
	Pagination *struct {
		NextPageCursor string `json:"nextPageCursor"`
		HasNextPage    bool   `json:"hasNextPage"`
	} `json:"pagination"`
}

func (c *Client) GetProduct(ctx context.Context, accessToken, productID string) (*commercedomain.Product, error) {
	raw, err := c.doGet(ctx, accessToken, "/commerce/products/"+url.PathEscape(productID))
	if err != nil {
		return nil, err
	}

	var decoded rawProduct
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	product := mapProduct(decoded)
	return &product, nil
}

func (c *Client) ListProducts(ctx context.Context, accessToken, cursor string, pageSize int) (*commercedomain.ProductsPage, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	raw, err := c.doGet(ctx, accessToken, "/commerce/products?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var decoded rawProductsPage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	page := &commercedomain.ProductsPage{
		Products: make([]commercedomain.Product, 0, len(decoded.Products)),
	}
	for _, p := range decoded.Products {
		page.Products = append(page.Products, mapProduct(p))
	}
	if decoded.Pagination != nil {
		page.NextCursor = decoded.Pagination.NextPageCursor
		page.HasNextPage = decoded.Pagination.HasNextPage
	}
	return page, nil
}

// UpdateImageAltText patches one image's alt text. The host has no
// dedicated image endpoint, so this fetches the product and re-posts the
// whole images array with the target entry replaced.
func (c *Client) UpdateImageAltText(ctx context.Context, accessToken, productID, imageID, altText string) error {
	product, err := c.GetProduct(ctx, accessToken, productID)
	if err != nil {
		return err
	}

	type imagePatch struct {
		ID      string `json:"id"`
		AltText string `json:"altText"`
	}
	images := make([]imagePatch, 0, len(product.Images))
	for _, img := range product.Images {
		patched := imagePatch{ID: img.ID, AltText: img.AltText}
		if img.ID == imageID {
			patched.AltText = altText
		}
		images = append(images, patched)
	}

	body, err := json.Marshal(map[string]any{"images": images})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/commerce/products/"+url.PathEscape(productID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("update alt text for image %s: %d %s", imageID, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*commercedomain.Token, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, commercedomain.ErrMissingCredentials
	}

	values := url.Values{}
	values.Set("grant_type", "authorization_code")
	values.Set("code", code)
	values.Set("redirect_uri", c.redirectURL)
	values.Set("client_id", c.clientID)
	values.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.loginBase+"/api/1/login/oauth/provider/token", strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed: %d %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return &commercedomain.Token{
		AccessToken:  decoded.AccessToken,
		RefreshToken: decoded.RefreshToken,
		ExpiresIn:    decoded.ExpiresIn,
	}, nil
}

func (c *Client) GetWebsite(ctx context.Context, accessToken string) (*commercedomain.Website, error) {
	raw, err := c.doGet(ctx, accessToken, "/authorization/website")
	if err != nil {
		return nil, err
	}

	var decoded struct {
		ID      string `json:"id"`
		BaseURL string `json:"baseUrl"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	site := &commercedomain.Website{SiteID: decoded.ID, SiteName: decoded.BaseURL}
	if site.SiteName == "" {
		site.SiteName = decoded.ID
	}
	return site, nil
}

func (c *Client) doGet(ctx context.Context, accessToken, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, commercedomain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commerce api %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func mapProduct(raw rawProduct) commercedomain.Product {
	images := make([]commercedomain.Image, 0, len(raw.Images))
	for _, img := range raw.Images {
		mapped := commercedomain.Image{
			ID:      img.ID,
			URL:     img.URL,
			AltText: img.AltText,
		}
		if img.OriginalSize != nil {
			if img.OriginalSize.URL != "" {
				mapped.URL = img.OriginalSize.URL
			}
			mapped.Width = img.OriginalSize.Width
			mapped.Height = img.OriginalSize.Height
		}
		images = append(images, mapped)
	}

	title := raw.Name
	if title == "" {
		title = raw.Title
	}
	if title == "" {
		title = "Untitled"
	}

	return commercedomain.Product{
		ID:          raw.ID,
		Title:       title,
		Description: raw.Description,
		Tags:        raw.Tags,
		Images:      images,
	}
}
