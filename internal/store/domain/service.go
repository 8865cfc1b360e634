package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ConnectRequest struct {
	SiteID      string
	SiteName    string
	AccessToken string
}

type Service interface {
	GetByID(ctx context.Context, id snowflake.ID) (*Store, error)
	GetBySiteID(ctx context.Context, siteID string) (*Store, error)
	// Connect upserts a store for a remote site after the OAuth handshake.
	Connect(ctx context.Context, req ConnectRequest) (*Store, error)
	GetSettings(ctx context.Context, id snowflake.ID) (*Settings, error)
	UpdateSettings(ctx context.Context, id snowflake.ID, settings Settings) error
}

var (
	ErrNotFound       = errors.New("store_not_found")
	ErrInvalidSiteID  = errors.New("invalid_site_id")
	ErrInvalidStoreID = errors.New("invalid_store_id")
)

var validStyles = map[string]struct{}{
	"concise":  {},
	"balanced": {},
	"detailed": {},
}

var validLanguages = map[string]struct{}{
	"en": {}, "es": {}, "fr": {}, "de": {},
	"it": {}, "pt": {}, "pl": {}, "ja": {},
}

// NormalizeSettings clamps free-form input onto the closed style and
// language sets, falling back to defaults for unknown values.
func NormalizeSettings(s Settings) Settings {
	if _, ok := validStyles[s.AltTextStyle]; !ok {
		s.AltTextStyle = "balanced"
	}
	if _, ok := validLanguages[s.DefaultLanguage]; !ok {
		s.DefaultLanguage = "en"
	}
	return s
}
