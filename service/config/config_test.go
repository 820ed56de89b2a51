package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STATIC_DIR", "ALLOWED_ORIGINS", "MAX_UPLOAD_MB", "GEMINI_MODEL", "SYSTEM_INSTRUCTION", "PROVIDER_TIMEOUT"} {
		t.Setenv(k, "")
	}
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, "*", cfg.AllowedOrigins)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "", cfg.SystemInstruction)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("PROVIDER_TIMEOUT", "90s")
	t.Setenv("MAX_UPLOAD_MB", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 90*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, int64(4<<20), cfg.MaxUploadBytes)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":      {"PROVIDER_TIMEOUT", "soon"},
		"negative duration": {"PROVIDER_TIMEOUT", "-5s"},
		"bad upload size":   {"MAX_UPLOAD_MB", "lots"},
		"zero upload size":  {"MAX_UPLOAD_MB", "0"},
		"bad port":          {"PORT", "http"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
