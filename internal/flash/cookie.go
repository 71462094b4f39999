package flash

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

const (
	cookieName   = "flash"
	cookieMaxAge = 5 * 60
)

// CookieStore keeps notices as gorilla session flashes in a signed cookie.
type CookieStore struct {
	sessions *sessions.CookieStore
}

func NewCookieStore(secret string, secure bool) (*CookieStore, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required for flash cookies")
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{sessions: store}, nil
}

func (s *CookieStore) Add(w http.ResponseWriter, r *http.Request, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}
	// A cookie that fails verification yields a fresh session, so its
	// messages are dropped rather than failing the request.
	session, _ := s.sessions.Get(r, cookieName)
	for _, message := range messages {
		session.AddFlash(message)
	}
	return session.Save(r, w)
}

func (s *CookieStore) Pop(w http.ResponseWriter, r *http.Request) ([]string, error) {
	if _, err := r.Cookie(cookieName); err != nil {
		return nil, nil
	}

	session, err := s.sessions.Get(r, cookieName)
	if err != nil {
		s.expire(w, r, session)
		return nil, fmt.Errorf("decode flash cookie: %w", err)
	}

	flashes := session.Flashes()
	s.expire(w, r, session)

	messages := make([]string, 0, len(flashes))
	for _, flash := range flashes {
		if message, ok := flash.(string); ok {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

// expire deletes the flash cookie once its messages are consumed.
func (s *CookieStore) expire(w http.ResponseWriter, r *http.Request, session *sessions.Session) {
	session.Options.MaxAge = -1
	_ = session.Save(r, w)
}
