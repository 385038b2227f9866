package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/ndexsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/tmp", cfg.DatabaseDir)
	assert.Equal(t, StoreFilesystem, cfg.Store)
	assert.Equal(t, time.Minute, cfg.PollingInterval)
	assert.Equal(t, 10*time.Millisecond, cfg.DispatcherIdle)
	assert.Equal(t, 1024, cfg.QueueSize)
	assert.Empty(t, cfg.TaskDir)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithDatabaseDir("/data"),
			WithStore(StoreBadger),
			WithPollingInterval(5*time.Second),
			WithNDEx("http://ndex.local", "bob", "secret"),
		)

		assert.Equal(t, "/data", cfg.DatabaseDir)
		assert.Equal(t, StoreBadger, cfg.Store)
		assert.Equal(t, 5*time.Second, cfg.PollingInterval)
		assert.Equal(t, "http://ndex.local", cfg.NDExServer)
		assert.Equal(t, "bob", cfg.NDExUser)
		assert.Equal(t, "secret", cfg.NDExPassword)
	})
}

func TestConfig_Normalize(t *testing.T) {
	cfg := NewConfig(
		WithDatabaseDir("/data"),
		WithStore("  BADGER "),
		WithHostURL("http://public.ndexbio.org/"),
	)
	cfg.Normalize()

	assert.Equal(t, "/data/tasks", cfg.TaskDir)
	assert.Equal(t, "/data/source.configurations.json", cfg.SourceConfigurationsFile)
	assert.Equal(t, StoreBadger, cfg.Store)
	assert.Equal(t, "http://public.ndexbio.org", cfg.HostURL)

	abs := NewConfig(WithTaskDir("/elsewhere"), WithSourceConfigurationsFile("/etc/sources.json"))
	abs.Normalize()
	assert.Equal(t, "/elsewhere", abs.TaskDir)
	assert.Equal(t, "/etc/sources.json", abs.SourceConfigurationsFile)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, NewConfig().Validate())

	cfg := NewConfig(WithDatabaseDir(""), WithSourceConfigurationsFile(""), WithStore("sqlite"))
	cfg.QueueSize = 0
	cfg.PollingInterval = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseDirRequired)
	assert.ErrorIs(t, err, ErrSourceConfigurationsRequired)
	assert.ErrorIs(t, err, ErrInvalidStore)
	assert.ErrorIs(t, err, ErrInvalidQueueSize)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestLoad(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp", cfg.DatabaseDir)
		assert.Equal(t, "/tmp/tasks", cfg.TaskDir)
		assert.Equal(t, time.Minute, cfg.PollingInterval)
	})

	t.Run("example file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ndexsearch.yaml")
		require.NoError(t, os.WriteFile(path, []byte(ExampleConfig()), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/tasks", cfg.TaskDir)
		assert.Equal(t, "bob", cfg.NDExUser)
		assert.Equal(t, "http://ndexbio.org/images/new_landing_page_logo.06974471.png", cfg.UnsetImageURL)
		assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ndexsearch.yaml")
		require.NoError(t, os.WriteFile(path, []byte(ExampleConfig()), 0o644))
		t.Setenv("NDEXSEARCH_SOURCE_POLLING_INTERVAL", "15s")
		t.Setenv("NDEXSEARCH_SEARCH_STORE", "badger")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, cfg.PollingInterval)
		assert.Equal(t, StoreBadger, cfg.Store)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, ErrReadFailed)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("NDEXSEARCH_SEARCH_STORE", "sqlite")
		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidStore)
	})
}

func writeSources(t *testing.T, scs *core.SourceConfigurations) string {
	t.Helper()
	data, err := json.Marshal(scs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "source.configurations.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadSourceConfigurations(t *testing.T) {
	t.Run("example round trip", func(t *testing.T) {
		path := writeSources(t, ExampleSourceConfigurations())

		scs, err := LoadSourceConfigurations(path)
		require.NoError(t, err)
		require.Len(t, scs.Sources, 4)
		assert.Equal(t, ExampleSourceConfigurations(), scs)
	})

	t.Run("endpoints normalized", func(t *testing.T) {
		path := writeSources(t, &core.SourceConfigurations{Sources: []core.SourceConfiguration{
			{Name: core.SourceEnrichment, Endpoint: "http://localhost/enrichment/"},
			{Name: core.SourceInteractomePPI, Endpoint: "http://localhost/ppi"},
		}})

		scs, err := LoadSourceConfigurations(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost/enrichment", scs.Sources[0].Endpoint)
		assert.Equal(t, "http://localhost/ppi/", scs.Sources[1].Endpoint)
	})

	t.Run("unknown source", func(t *testing.T) {
		path := writeSources(t, &core.SourceConfigurations{Sources: []core.SourceConfiguration{
			{Name: "pathways", Endpoint: "http://localhost/pathways"},
		}})

		_, err := LoadSourceConfigurations(path)
		assert.ErrorIs(t, err, core.ErrUnknownSourceName)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := LoadSourceConfigurations(path)
		assert.ErrorIs(t, err, ErrReadFailed)
	})
}
