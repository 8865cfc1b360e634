package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const storeIDHeader = "X-Store-ID"

// storeID reads the caller's store identity from the X-Store-ID header.
// Session handling lives in an outer layer; this service trusts the
// header the same way the metering API trusts its org context.
func storeID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.GetHeader(storeIDHeader))
	if raw == "" {
		return 0, ErrUnauthorized
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return id, nil
}
