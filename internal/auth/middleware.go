package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/commerce-api/internal/domain"
	"github.com/joao-fontenele/commerce-api/internal/httpx"
)

type contextKey struct{}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, contextKey{}, email)
}

// EmailFromContext returns the authenticated email set by RequireToken.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(contextKey{}).(string)
	return email, ok
}

// RequireToken rejects requests without a valid bearer token.
func RequireToken(issuer *TokenIssuer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, logger, domain.Errorf(domain.ErrUnauthorized, "Token de autenticacion requerido."))
				return
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				logger.Debug("rejected token", "error", err)
				httpx.WriteError(w, logger, domain.Errorf(domain.ErrUnauthorized, "Token invalido o expirado."))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), claims.Subject)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
