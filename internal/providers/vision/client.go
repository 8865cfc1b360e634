// Package vision implements the generation client against the OpenAI
// chat completions API.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smallbiznis/specto/internal/config"
	visiondomain "github.com/smallbiznis/specto/internal/providers/vision/domain"
	"github.com/smallbiznis/specto/internal/shaper"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	maxDescChars   = 200
)

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) visiondomain.Client {
	return &Client{
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log.Named("vision.client"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate issues one vision-model call for a single image. The returned
// alt text is already shaped to the style's character bound.
func (c *Client) Generate(ctx context.Context, req visiondomain.GenerateRequest) (*visiondomain.GenerateResult, error) {
	if c.apiKey == "" {
		return nil, visiondomain.ErrMissingAPIKey
	}

	styleCfg := visiondomain.ConfigForStyle(req.Style, req.Language)

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: styleCfg.SystemPrompt},
			{Role: "user", Content: []contentPart{
				{
					Type: "text",
					Text: fmt.Sprintf("Generate alt text for this product image.\n\nProduct Context:\n%s\n\n%s",
						buildContextPrompt(req.Context), styleCfg.UserInstruction),
				},
				{
					Type:     "image_url",
					ImageURL: &imageURL{URL: req.ImageURL, Detail: "auto"},
				},
			}},
		},
		MaxTokens:   styleCfg.MaxTokens,
		Temperature: styleCfg.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("vision api %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("vision api %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Choices) == 0 {
		return nil, visiondomain.ErrEmptyResponse
	}

	altText := shaper.Shape(decoded.Choices[0].Message.Content, styleCfg.MaxChars)
	if altText == "" {
		return nil, visiondomain.ErrEmptyResponse
	}

	return &visiondomain.GenerateResult{
		AltText:    altText,
		TokensUsed: decoded.Usage.TotalTokens,
	}, nil
}

func buildContextPrompt(pc visiondomain.ProductContext) string {
	parts := []string{"Product Name: " + pc.Name}
	if pc.Vendor != "" {
		parts = append(parts, "Brand/Vendor: "+pc.Vendor)
	}
	if pc.ProductType != "" {
		parts = append(parts, "Product Type: "+pc.ProductType)
	}
	if len(pc.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(pc.Tags, ", "))
	}
	if pc.Description != "" {
		clean := shaper.StripHTML(pc.Description)
		parts = append(parts, "Description: "+shaper.TruncateDescription(clean, maxDescChars))
	}
	return strings.Join(parts, "\n")
}
