package web

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/zserver/internal/reqctx"
)

type ctxKey string

const reqIDKey ctxKey = "zs.reqID"

// ReqID returns the request id set by Logging, or "".
func ReqID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging assigns a request id and logs request metadata.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := uuid.Must(uuid.NewV4()).String()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), reqIDKey, id)))

			// no payloads, only metadata
			log.Info("http",
				zap.String("req_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// Recover turns a handler panic into a 500.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeErr(w, r, errPanic)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requireCtx resolves the auth token of the request into a reqctx.Ctx.
func (s *Server) requireCtx(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			writeErr(w, r, errNoAuth)
			return
		}
		c, err := s.auth.Authenticate(r.Context(), raw)
		if err != nil {
			s.log.Info("auth failed", zap.String("req_id", ReqID(r.Context())), zap.Error(err))
			writeErr(w, r, err)
			return
		}
		next(w, r.WithContext(reqctx.WithCtx(r.Context(), c)))
	}
}

func tokenFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(AuthTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
