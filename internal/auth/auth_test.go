package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/joao-fontenele/commerce-api/internal/domain"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("ana@example.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t.Run("other secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other-secret", time.Hour).Issue("ana@example.com")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenIssuer("test-secret", time.Minute)
		expired.now = func() time.Time { return time.Now().Add(-time.Hour) }

		token, err := expired.Issue("ana@example.com")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", hash)

	ok, err := hasher.Compare(hash, "secreto123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Compare(hash, "otra-clave")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = hasher.Compare("not-a-hash", "secreto123")
	assert.Error(t, err)
}

func TestBcryptHasher_LongMultibytePassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	password := strings.Repeat("😀", 20)

	_, err := hasher.Hash(password)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))

	hash, err := hasher.Hash("secreto123")
	require.NoError(t, err)
	ok, err := hasher.Compare(hash, password)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequireToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seenEmail string
	protected := RequireToken(issuer, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenEmail, _ = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/producto", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/producto", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := issuer.Issue("ana@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/producto", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if seenEmail != "ana@example.com" {
			t.Errorf("expected email in context, got %q", seenEmail)
		}
	})
}
