package handlers

import (
	"time"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/identity"
	"bluemark.com/bluemark/insight"
	"bluemark.com/bluemark/reporting"
	"bluemark.com/bluemark/security"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Handler is the session controller behind the API: it owns the injected
// store and collaborator clients and carries the process-wide settings.
type Handler struct {
	Store    *attendance.Store
	Settings attendance.CompanySettings
	Identity *identity.Client
	Sink     *reporting.Sink
	Insight  *insight.Provider

	JWTSecret string // base64
	TokenTTL  int64  // seconds

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func New(store *attendance.Store, settings attendance.CompanySettings) *Handler {
	return &Handler{
		Store:    store,
		Settings: settings,
		Now:      time.Now,
	}
}

// currentUser rebuilds the acting user from the middleware's parsed claims.
func currentUser(c *gin.Context) (attendance.User, bool) {
	claims, ok := c.Get("claims")
	if !ok {
		return attendance.User{}, false
	}
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return attendance.User{}, false
	}
	return security.UserFromClaims(mapClaims), true
}
