package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContextPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "empty", path: ""},
		{name: "root", path: "/"},
		{name: "single segment", path: "/app"},
		{name: "nested", path: "/team/app"},
		{name: "missing leading slash", path: "app", wantErr: true},
		{name: "trailing slash", path: "/app/", wantErr: true},
		{name: "double slash", path: "//", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContextPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidContextPath)
				assert.Contains(t, err.Error(), tt.path)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:5001", cfg.ListenAddr())
	assert.Equal(t, "", cfg.GRPCAddr())
	assert.Equal(t, "", cfg.RoutePrefix())
}

func TestValidate(t *testing.T) {
	t.Run("bad context path fails fast", func(t *testing.T) {
		cfg := Default()
		cfg.ContextPath = "app/"
		require.ErrorIs(t, cfg.Validate(), ErrInvalidContextPath)
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := Default()
		cfg.Port = 70000
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Port")
	})

	t.Run("missing version", func(t *testing.T) {
		cfg := Default()
		cfg.Version = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Version")
	})

	t.Run("unknown log format", func(t *testing.T) {
		cfg := Default()
		cfg.LogFormat = "xml"
		require.Error(t, cfg.Validate())
	})

	t.Run("empty cors origin", func(t *testing.T) {
		cfg := Default()
		cfg.AllowedOrigins = []string{"https://example.com", ""}
		require.Error(t, cfg.Validate())
	})
}

func TestAddresses(t *testing.T) {
	cfg := Default()
	cfg.Host = "0.0.0.0"
	cfg.Port = 8080
	cfg.GRPCPort = 9090
	cfg.ContextPath = "/app"

	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
	assert.Equal(t, "0.0.0.0:9090", cfg.GRPCAddr())
	assert.Equal(t, "/app", cfg.RoutePrefix())
}
