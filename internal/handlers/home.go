package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/internal/storage"
	"github.com/csemotors/dealer/internal/views"
)

// Home renders the landing page.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, views.Home, s.page(w, r, "Home"))
}

// ErrorTest fails on purpose so the error page can be checked.
func (s *Site) ErrorTest(w http.ResponseWriter, r *http.Request) {
	panic(errors.New("intentional error from /test/error-test"))
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports whether the database answers.
func Healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// Media streams uploaded vehicle images.
func (s *Site) Media(images *storage.Images) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !images.Enabled() {
			s.NotFound(w, r)
			return
		}

		obj, err := images.Open(r.Context(), chi.URLParam(r, "*"))
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.NotFound(w, r)
			return
		}
		if err != nil {
			s.logger.Error("open media", zap.String("path", r.URL.Path), zap.Error(err))
			s.renderError(w, r, http.StatusInternalServerError)
			return
		}
		defer obj.Close()

		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := io.Copy(w, obj); err != nil {
			s.logger.Warn("stream media", zap.String("path", r.URL.Path), zap.Error(err))
		}
	}
}
