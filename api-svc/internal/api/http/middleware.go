package httpapi

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"foodzone/api-svc/internal/domain"
	"foodzone/api-svc/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	requestIDKey
)

// ClaimsFrom returns the verified token claims attached by verifyToken.
func ClaimsFrom(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*service.Claims)
	return c, ok
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working behind the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		log.Printf("[api-svc] %s %s %d %s id=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), id)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// secure wraps next with session token verification.
func (h *Handler) secure(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}
		claims, err := h.Tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// feedToken finds the session token on a websocket handshake. Browsers
// cannot set headers there, so the token may also arrive as the "token"
// query parameter or as the subprotocol pair "bearer, <token>".
func feedToken(r *http.Request) string {
	if token := bearerToken(r); token != "" {
		return token
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	protocols := websocket.Subprotocols(r)
	if len(protocols) == 2 && strings.EqualFold(protocols[0], feedProtocol) {
		return protocols[1]
	}
	return ""
}

// secureFeed verifies the caller before the upgrade. A seller may only
// watch their own feed.
func (h *Handler) secureFeed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := feedToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}
		claims, err := h.Tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}
		if !strings.EqualFold(claims.Email, mux.Vars(r)["email"]) {
			writeError(w, http.StatusForbidden, "forbidden access")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// admin additionally requires the caller's stored role to be admin.
func (h *Handler) admin(next http.HandlerFunc) http.Handler {
	return h.secure(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFrom(r.Context())
		role, err := h.Users.Role(r.Context(), claims.Email)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found!")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "Error verifying admin status")
			return
		case role != domain.RoleAdmin:
			writeError(w, http.StatusForbidden, "forbidden access!")
			return
		}
		next(w, r)
	})
}
