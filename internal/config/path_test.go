package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("VALET_TEST_DIR", "/srv/files")

	home, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path untouched", in: "/var/tmp/x", want: "/var/tmp/x"},
		{name: "tilde slash", in: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$VALET_TEST_DIR/in", want: "/srv/files/in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDirsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	assert.Equal(t, "/xdg/config/valet", Dir())
	assert.Equal(t, "/xdg/data/valet", DataDir())
	assert.Equal(t, "/xdg/cache/valet", CacheDir())
}
