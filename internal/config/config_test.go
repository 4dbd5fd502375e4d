package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("LINKSTASH_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "LINKSTASH_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "LINKSTASH_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "LINKSTASH_TEST_MISSING", "fallback"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"banana", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "UNSET", true))
		})
	}

	// Empty everywhere falls back to the default.
	assert.True(t, getBoolConfigValue("", "UNSET", true))
	assert.False(t, getBoolConfigValue("", "UNSET", false))
}

func TestGetIntConfigValue(t *testing.T) {
	assert.Equal(t, 4, getIntConfigValue("4", "UNSET", 2))
	assert.Equal(t, 2, getIntConfigValue("", "UNSET", 2))
	assert.Equal(t, 2, getIntConfigValue("not-a-number", "UNSET", 2))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"http://localhost:3000", "https://app.example.com"},
		splitOrigins("http://localhost:3000, https://app.example.com"))
	assert.Empty(t, splitOrigins(" , "))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nLINKSTASH_ENVFILE_A=hello\nLINKSTASH_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("LINKSTASH_ENVFILE_A", "")
	t.Setenv("LINKSTASH_ENVFILE_B", "")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("LINKSTASH_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("LINKSTASH_ENVFILE_B"))
}

func TestLoadEnvFile_EnvTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LINKSTASH_ENVFILE_C=from-file\n"), 0o600))

	t.Setenv("LINKSTASH_ENVFILE_C", "from-env")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("LINKSTASH_ENVFILE_C"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A KEY VALUE PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: t.TempDir()},
		Server: ServerConfig{Port: "8080"},
		Auth:   AuthConfig{SessionDuration: 720 * time.Hour, SignupsEnabled: true},
		Enrich: EnrichConfig{Enabled: true, Workers: 2, FetchTimeout: 10 * time.Second},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.App.Environment = "qa"
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Logger.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Enrich.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandDataPaths_Defaults(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: t.TempDir()}}
	require.NoError(t, cfg.expandDataPaths())

	assert.Equal(t, filepath.Join(cfg.Data.BasePath, "linkstash.db"), cfg.Data.DatabasePath)
	assert.Equal(t, filepath.Join(cfg.Data.BasePath, "queue"), cfg.Data.QueuePath)
}
