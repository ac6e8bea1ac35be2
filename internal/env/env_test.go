package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestConfig struct {
	Host     string        `env:"TM_TEST_HOST" default:"localhost"`
	Port     int           `env:"TM_TEST_PORT" default:"8080"`
	Enabled  bool          `env:"TM_TEST_ENABLED" default:"true"`
	Interval time.Duration `env:"TM_TEST_INTERVAL" default:"250ms"`
	Limit    uint16        `env:"TM_TEST_LIMIT"`
	NoDef    string        `env:"TM_TEST_NO_DEF"`
	ignored  string
}

func TestLoad(t *testing.T) {
	t.Setenv("TM_TEST_HOST", "example.com")
	t.Setenv("TM_TEST_PORT", "9090")
	t.Setenv("TM_TEST_ENABLED", "false")
	t.Setenv("TM_TEST_INTERVAL", "1m30s")
	t.Setenv("TM_TEST_LIMIT", "512")
	t.Setenv("TM_TEST_NO_DEF", "foo")

	var cfg TestConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.Equal(t, uint16(512), cfg.Limit)
	assert.Equal(t, "foo", cfg.NoDef)
	assert.Empty(t, cfg.ignored)
}

func TestLoad_Defaults(t *testing.T) {
	var cfg TestConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Zero(t, cfg.Limit)
	assert.Empty(t, cfg.NoDef)
}

func TestLoad_EmptyStringRespected(t *testing.T) {
	t.Setenv("TM_TEST_HOST", "")

	var cfg TestConfig
	require.NoError(t, Load(&cfg))

	// Set-but-empty is not the same as unset.
	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "empty int", key: "TM_TEST_PORT", val: ""},
		{name: "bad bool", key: "TM_TEST_ENABLED", val: "maybe"},
		{name: "bad duration", key: "TM_TEST_INTERVAL", val: "soon"},
		{name: "uint overflow", key: "TM_TEST_LIMIT", val: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			var cfg TestConfig
			err := Load(&cfg)
			require.Error(t, err)

			var invalid ErrInvalidValue
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.key, invalid.EnvVar)
		})
	}
}

func TestLoad_NotStructPointer(t *testing.T) {
	var cfg TestConfig
	err := Load(cfg)

	var notPtr ErrNotStructPointer
	assert.True(t, errors.As(err, &notPtr))
}

func TestLoad_UnsupportedType(t *testing.T) {
	t.Setenv("TM_TEST_RATIO", "0.5")

	var cfg struct {
		Ratio float64 `env:"TM_TEST_RATIO"`
	}
	err := Load(&cfg)

	var unsupported ErrUnsupportedType
	assert.True(t, errors.As(err, &unsupported))
}

type validatedConfig struct {
	Name string `env:"TM_TEST_NAME"`
}

var errNameRequired = errors.New("name required")

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errNameRequired
	}
	return nil
}

func TestLoad_RunsNestedValidators(t *testing.T) {
	var cfg struct {
		Inner validatedConfig
	}
	assert.ErrorIs(t, Load(&cfg), errNameRequired)

	t.Setenv("TM_TEST_NAME", "ok")
	assert.NoError(t, Load(&cfg))
	assert.Equal(t, "ok", cfg.Inner.Name)
}

func TestLoad_EmbeddedStruct(t *testing.T) {
	type BaseConfig struct {
		StorageDSN  string `env:"TM_TEST_STORAGE_DSN"`
		StorageType string `env:"TM_TEST_STORAGE_TYPE" default:"fs"`
	}

	type AppConfig struct {
		BaseConfig
		AppName string `env:"TM_TEST_APP_NAME" default:"taskmaster"`
	}

	t.Run("parses embedded struct fields", func(t *testing.T) {
		t.Setenv("TM_TEST_STORAGE_DSN", "postgres://localhost/db")

		var cfg AppConfig
		require.NoError(t, Load(&cfg))

		assert.Equal(t, "postgres://localhost/db", cfg.StorageDSN)
		assert.Equal(t, "fs", cfg.StorageType)
		assert.Equal(t, "taskmaster", cfg.AppName)
	})

	t.Run("empty string in embedded struct is respected", func(t *testing.T) {
		t.Setenv("TM_TEST_STORAGE_TYPE", "")

		var cfg AppConfig
		require.NoError(t, Load(&cfg))

		assert.Equal(t, "", cfg.StorageType)
	})
}
