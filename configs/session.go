package configs

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

var sessionStore *session.Store

// SetupSession creates (once) the cookie-backed session store.
func SetupSession() *session.Store {
	if sessionStore != nil {
		return sessionStore
	}
	sessionStore = session.New(session.Config{
		Expiration:     12 * time.Hour,
		KeyLookup:      "cookie:celulas_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   Env("APP_ENV", "") == "production",
	})
	return sessionStore
}
