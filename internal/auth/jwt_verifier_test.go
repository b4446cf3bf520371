package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktmouk/minute-sub000/internal/domain"
	"github.com/ktmouk/minute-sub000/internal/domain/models"
)

func newTestVerifier(t *testing.T) (*KeyfuncVerifier, *ecdsa.PrivateKey) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := NewKeyfuncVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, logger)

	return verifier, key
}

func sign(t *testing.T, key *ecdsa.PrivateKey, claims *models.AccessClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestVerifyToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	expires := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		claims  *models.AccessClaims
		wantErr bool
	}{
		{
			name: "valid token",
			claims: &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: expires},
				Role:             "authenticated",
			},
		},
		{
			name: "missing subject",
			claims: &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: expires},
				Role:             "authenticated",
			},
			wantErr: true,
		},
		{
			name: "anonymous role",
			claims: &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: expires},
				Role:             "anon",
			},
			wantErr: true,
		},
		{
			name: "expired",
			claims: &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "user-1",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				},
				Role: "authenticated",
			},
			wantErr: true,
		},
		{
			name: "no expiry",
			claims: &models.AccessClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
				Role:             "authenticated",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(sign(t, key, tt.claims))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.GetUserID())
		})
	}
}

func TestVerifyToken_RejectsSymmetricAlgorithm(t *testing.T) {
	verifier, _ := newTestVerifier(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "authenticated",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyToken_Garbage(t *testing.T) {
	verifier, _ := newTestVerifier(t)

	_, err := verifier.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
