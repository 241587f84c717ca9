package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/app-starter/internal/domain/template"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings get defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultArchiveBaseURL, cfg.Templates.ArchiveBaseURL)

	// Bad log level.
	cfg = &Config{LogLevel: "loud"}
	require.ErrorIs(t, Validate(cfg), errInvalidLogLevel)

	// Starter without a type.
	cfg = &Config{
		Templates: template.Catalog{
			Starters: []template.Starter{{Name: "blank"}},
		},
	}
	require.ErrorIs(t, Validate(cfg), errIncompleteStarter)

	// Bad archive URL.
	cfg = &Config{
		Templates: template.Catalog{
			Starters: []template.Starter{{Name: "blank", Type: "ionic1", Archive: "not a url"}},
		},
	}
	require.Error(t, Validate(cfg))

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
}

// TestDefaultTimeout pins the download timeout to 900000 ms.
func TestDefaultTimeout(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(900000), DefaultTimeout.Milliseconds())
	require.NoError(t, Validate(Default()))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := Default()
	cfg.Timeout = 30 * time.Second
	cfg.LogLevel = "debug"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
	require.Equal(t, cfg.LogLevel, loaded.LogLevel)
	require.Equal(t, cfg.Templates, loaded.Templates)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadPartialFile verifies that omitted keys keep their defaults.
func TestLoadPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 2m\n"), DefaultFilePermissions))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, loaded.Timeout)
	require.Equal(t, Default().Templates, loaded.Templates)
}

// TestLoadOrDefault falls back to the built-in catalog only for missing files.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("timeout: [\n"), DefaultFilePermissions))

	_, err = LoadOrDefault(broken)
	require.Error(t, err)
}
