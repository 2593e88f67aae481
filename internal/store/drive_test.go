package store

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/yjpartners/valet/internal/common"
)

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Invoices", want: "Invoices"},
		{name: "single quote", input: "O'Brien's Files", want: `O\'Brien\'s Files`},
		{name: "backslash", input: `a\b`, want: `a\\b`},
		{name: "backslash then quote", input: `a\'b`, want: `a\\\'b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeQuery(tt.input))
		})
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err           error
		name          string
		wantRetryable bool
		wantRateLimit bool
	}{
		{
			name: "nil passes through",
			err:  nil,
		},
		{
			name:          "rate limit is retryable and tagged",
			err:           &googleapi.Error{Code: http.StatusTooManyRequests, Message: "rate limited"},
			wantRetryable: true,
			wantRateLimit: true,
		},
		{
			name:          "server error is retryable",
			err:           &googleapi.Error{Code: http.StatusServiceUnavailable, Message: "backend"},
			wantRetryable: true,
		},
		{
			name:          "not found is permanent",
			err:           &googleapi.Error{Code: http.StatusNotFound, Message: "no such file"},
			wantRetryable: false,
		},
		{
			name:          "forbidden is permanent",
			err:           &googleapi.Error{Code: http.StatusForbidden, Message: "no access"},
			wantRetryable: false,
		},
		{
			name:          "transport error is retryable",
			err:           errors.New("connection reset"),
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := retryable(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}

			require.Error(t, got)
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(got))
			assert.Equal(t, tt.wantRateLimit, errors.Is(got, common.ErrRateLimit))
		})
	}
}

func TestTokenSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	require.NoError(t, saveToken(path, token))

	// Token files hold credentials and must not be world-readable.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, token.TokenType, loaded.TokenType)
	assert.WithinDuration(t, token.Expiry, loaded.Expiry, time.Second)
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "absent.json"))
	assert.True(t, os.IsNotExist(err))
}
