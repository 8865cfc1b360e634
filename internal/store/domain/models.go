package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Store is a connected tenant site. Credit counters are mutated only by
// the credits service; everything else through settings or Connect.
type Store struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	SiteID           string       `gorm:"type:text;not null;uniqueIndex:ux_stores_site_id" json:"site_id"`
	SiteName         string       `gorm:"type:text;not null" json:"site_name"`
	AccessToken      string       `gorm:"type:text;not null" json:"-"`
	Plan             string       `gorm:"type:text;not null;default:free" json:"plan"`
	CreditsRemaining int64        `gorm:"not null;default:0" json:"credits_remaining"`
	CreditsUsed      int64        `gorm:"not null;default:0" json:"credits_used"`
	AltTextStyle     string       `gorm:"type:text;not null;default:balanced" json:"alt_text_style"`
	DefaultLanguage  string       `gorm:"type:text;not null;default:en" json:"default_language"`
	AutoProcess      bool         `gorm:"not null;default:false" json:"auto_process"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Store) TableName() string { return "stores" }

// Settings is the user-tunable slice of a store.
type Settings struct {
	AltTextStyle    string `json:"alt_text_style"`
	DefaultLanguage string `json:"default_language"`
	AutoProcess     bool   `json:"auto_process"`
}
