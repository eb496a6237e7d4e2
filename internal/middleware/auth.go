package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/config"
)

type ctxKey int

const ctxAgentClaims ctxKey = iota

func ClaimsFrom(ctx context.Context) (*config.AgentClaims, bool) {
	claims, ok := ctx.Value(ctxAgentClaims).(*config.AgentClaims)
	return claims, ok
}

func WithClaims(ctx context.Context, claims *config.AgentClaims) context.Context {
	return context.WithValue(ctx, ctxAgentClaims, claims)
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	// browsers cannot set headers on websocket upgrades
	return r.URL.Query().Get("token")
}

// Auth attaches the claims of a valid bearer token to the request context.
// Requests without a token pass through anonymously; requests with an
// invalid one are rejected.
func Auth(log *logrus.Logger, j *config.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := j.ParseAgentClaims(token)
			if err != nil {
				log.WithError(err).Debug("rejected token")
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
