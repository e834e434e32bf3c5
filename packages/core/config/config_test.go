package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".petrc")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": 500, "headers": {"X-Env": "dev"}, "insecure": true}`), 0644))

	cfg, err := FindAndLoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Timeout)
	assert.Equal(t, map[string]string{"X-Env": "dev"}, cfg.Headers)
	assert.True(t, cfg.GetInsecure())
	assert.Equal(t, "console", cfg.Output)
	assert.False(t, cfg.IsDefault())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pet.config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 1500\noutput: json\nnoColor: true\nhistory: sqlite:pet.db\n"), 0644))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.Timeout)
	assert.Equal(t, "json", cfg.Output)
	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, "sqlite:pet.db", cfg.History)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": "soon"`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1"}

	merged := base.Merge(&Config{
		Timeout: 10,
		Headers: map[string]string{"B": "2"},
		Verbose: BoolPtr(true),
	})

	assert.Equal(t, 10, merged.Timeout)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.True(t, merged.GetVerbose())
	assert.False(t, merged.GetNoColor())
	assert.Equal(t, map[string]string{"A": "1"}, base.Headers)
	assert.Same(t, base, base.Merge(nil))
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	for _, name := range []string{"pet.config.json", "pet.config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.Timeout = 42
			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, 42, loaded.Timeout)
		})
	}
}
