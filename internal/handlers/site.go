package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/flash"
	"github.com/csemotors/dealer/internal/views"
	"github.com/csemotors/dealer/types"
)

const (
	msgNotFound = "Sorry, we appear to have lost that page."
	msgCrash    = "Oh no! There was a crash. Maybe try a different route?"
)

// NavSource lists the classifications shown in the navigation bar.
type NavSource interface {
	Classifications(ctx context.Context) ([]types.Classification, error)
}

// Site holds what every page handler needs to answer with HTML: templates,
// navigation, flash notices and cookie settings.
type Site struct {
	views   *views.Renderer
	nav     NavSource
	flash   flash.Store
	logger  *zap.Logger
	cookies *CookieHelper
}

func NewSite(renderer *views.Renderer, nav NavSource, notices flash.Store, logger *zap.Logger, secure bool) *Site {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Site{views: renderer, nav: nav, flash: notices, logger: logger, cookies: NewCookieHelper(secure)}
}

// page builds the common page data: pending flash notices followed by
// notices, the navigation and the caller's identity.
func (s *Site) page(w http.ResponseWriter, r *http.Request, title string, notices ...string) views.Page {
	page := views.Page{Title: title}

	pending, err := s.flash.Pop(w, r)
	if err != nil {
		s.logger.Warn("read flash", zap.Error(err))
	}
	page.Notices = append(pending, notices...)

	if nav, err := s.nav.Classifications(r.Context()); err != nil {
		s.logger.Error("load navigation", zap.Error(err))
	} else {
		page.Nav = nav
	}

	if identity, ok := auth.IdentityFrom(r.Context()); ok {
		page.Identity = &identity
	}
	return page
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	if err := s.views.Render(w, status, name, page); err != nil {
		s.logger.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, msgCrash, http.StatusInternalServerError)
	}
}

// renderError renders the error page. Details never reach the client.
func (s *Site) renderError(w http.ResponseWriter, r *http.Request, status int) {
	message := msgCrash
	if status == http.StatusNotFound {
		message = msgNotFound
	}
	page := s.page(w, r, http.StatusText(status))
	page.Data = views.ErrorInfo{Status: status, Message: message}
	s.render(w, r, status, views.Error, page)
}

// redirect queues notices for the next page and redirects with 303.
func (s *Site) redirect(w http.ResponseWriter, r *http.Request, to string, notices ...string) {
	if len(notices) > 0 {
		if err := s.flash.Add(w, r, notices...); err != nil {
			s.logger.Warn("write flash", zap.Error(err))
		}
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// NotFound renders the 404 page for unmatched routes.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound)
}
