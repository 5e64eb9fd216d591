package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	tests := []struct {
		name         string
		flagValue    string
		envKey       string
		envValue     string
		defaultValue string
		want         string
	}{
		{
			name:         "flag takes precedence",
			flagValue:    "from-flag",
			envKey:       "TEST_CONFIG_KEY",
			envValue:     "from-env",
			defaultValue: "from-default",
			want:         "from-flag",
		},
		{
			name:         "env when no flag",
			flagValue:    "",
			envKey:       "TEST_CONFIG_KEY",
			envValue:     "from-env",
			defaultValue: "from-default",
			want:         "from-env",
		},
		{
			name:         "default when nothing set",
			flagValue:    "",
			envKey:       "TEST_CONFIG_KEY",
			envValue:     "",
			defaultValue: "from-default",
			want:         "from-default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.envKey, tt.envValue)
			}
			got := getConfigValue(tt.flagValue, tt.envKey, tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	content := "# comment line\n" +
		"ENVFILE_TEST_PLAIN=hello\n" +
		"ENVFILE_TEST_QUOTED=\"quoted value\"\n" +
		"\n" +
		"ENVFILE_TEST_EXISTING=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// A real env var must win over the file.
	t.Setenv("ENVFILE_TEST_EXISTING", "from-env")
	t.Setenv("ENVFILE_TEST_PLAIN", "")
	t.Setenv("ENVFILE_TEST_QUOTED", "")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "hello", os.Getenv("ENVFILE_TEST_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("ENVFILE_TEST_QUOTED"))
	assert.Equal(t, "from-env", os.Getenv("ENVFILE_TEST_EXISTING"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A VALID LINE\n"), 0o600))

	err := loadEnvFile(path)
	assert.Error(t, err)
}

func TestLoadEnvFile_Missing(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/srv/default")
		require.NoError(t, err)
		assert.Equal(t, "/srv/default", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		got, err := expandPath("~/openshelf", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "openshelf"), got)
	})

	t.Run("absolute path is cleaned", func(t *testing.T) {
		got, err := expandPath("/srv//openshelf/./data", "")
		require.NoError(t, err)
		assert.Equal(t, "/srv/openshelf/data", got)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Data:   DataConfig{BasePath: "/srv/openshelf/data"},
			Server: ServerConfig{Port: "8080", ReadTimeout: 15 * time.Second},
			Auth:   AuthConfig{AccessTokenDuration: 24 * time.Hour, LoginSecret: "secret"},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "testing"
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := valid()
		cfg.Data.BasePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty login secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.LoginSecret = ""
		assert.Error(t, cfg.Validate())
	})
}
