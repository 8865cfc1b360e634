package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	storedomain "github.com/smallbiznis/specto/internal/store/domain"
)

const (
	oauthStateCookie = "specto_oauth_state"
	oauthScope       = "website.products,website.products.read"
)

// Connect starts the OAuth handshake by redirecting the merchant to the
// remote host's consent screen. The random state round-trips through a
// short-lived cookie.
func (s *Server) Connect(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)

	q := url.Values{}
	q.Set("client_id", s.cfg.CommerceClientID)
	q.Set("redirect_uri", s.cfg.CommerceRedirectURL)
	q.Set("scope", oauthScope)
	q.Set("access_type", "offline")
	q.Set("state", state)

	c.Redirect(http.StatusFound, s.cfg.CommerceLoginBase+"/api/1/login/oauth/provider/authorize?"+q.Encode())
}

// OAuthCallback finishes the handshake: exchange the code, resolve the
// site identity, and upsert the store keyed by site id.
func (s *Server) OAuthCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		AbortWithError(c, newValidationError("error", "oauth_denied", errParam))
		return
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		AbortWithError(c, newValidationError("code", "missing_code", "missing authorization code"))
		return
	}

	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		AbortWithError(c, newValidationError("state", "invalid_state", "state mismatch"))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	token, err := s.commerce.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	website, err := s.commerce.GetWebsite(c.Request.Context(), token.AccessToken)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	store, err := s.storeSvc.Connect(c.Request.Context(), storedomain.ConnectRequest{
		SiteID:      website.SiteID,
		SiteName:    website.SiteName,
		AccessToken: token.AccessToken,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}
