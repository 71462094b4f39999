package handlers

import (
	"net/http"
	"time"
)

// TokenCookie is the name of the cookie carrying the session token.
const TokenCookie = "jwt"

// CookieHelper manages the session token cookie.
type CookieHelper struct {
	secure bool
}

// NewCookieHelper creates a helper. Secure marks cookies HTTPS only.
func NewCookieHelper(secure bool) *CookieHelper {
	return &CookieHelper{secure: secure}
}

// SetToken stores the token for maxAge seconds.
func (h *CookieHelper) SetToken(w http.ResponseWriter, token string, maxAge int) {
	h.setCookie(w, token, maxAge)
}

// ClearToken removes the token cookie.
func (h *CookieHelper) ClearToken(w http.ResponseWriter) {
	h.setCookie(w, "", -1)
}

// Token returns the token sent by the client, if any.
func (h *CookieHelper) Token(r *http.Request) string {
	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *CookieHelper) setCookie(w http.ResponseWriter, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
	if maxAge > 0 {
		cookie.Expires = time.Now().Add(time.Duration(maxAge) * time.Second)
	} else {
		cookie.Expires = time.Unix(0, 0)
	}
	http.SetCookie(w, cookie)
}
