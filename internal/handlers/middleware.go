package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/types"
)

const (
	msgPleaseLogIn = "Please log in."
	msgNoAccess    = "You do not have access to that page."
)

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// LoadIdentity attaches the identity of a valid token cookie to the request
// context. An invalid or expired cookie is cleared and the request proceeds
// anonymously.
func (s *Site) LoadIdentity(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := s.cookies.Token(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				s.cookies.ClearToken(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects anonymous callers to the login page.
func (s *Site) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFrom(r.Context()); !ok {
			s.cookies.ClearToken(w)
			s.redirect(w, r, "/account/login", msgPleaseLogIn)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through callers holding one of roles. It must run after
// RequireLogin.
func (s *Site) RequireRole(roles ...types.Role) func(http.Handler) http.Handler {
	return s.RequireCapability(auth.HasRole(roles...))
}

// RequireCapability lets through callers for which capability holds. Others
// are sent to the account page without a reason.
func (s *Site) RequireCapability(capability auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFrom(r.Context())
			if !ok || !capability(identity) {
				s.redirect(w, r, "/account/", msgNoAccess)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAccountAccess lets through callers that may manage the account
// whose id accountID extracts from the request.
func (s *Site) RequireAccountAccess(accountID func(*http.Request) int, notice string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFrom(r.Context())
			if !ok || !auth.CanManageAccount(identity, accountID(r)) {
				s.redirect(w, r, "/account/", notice)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Recoverer turns panics into the error page. The stack only goes to the log.
func (s *Site) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("panic serving request",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Stack("stack"),
			)
			s.renderError(w, r, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
