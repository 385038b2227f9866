// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the NDEXSEARCH_ prefix with
// dots replaced by underscores, e.g. NDEXSEARCH_SEARCH_DATABASE_DIR.
const (
	KeyDatabaseDir          = "search.database.dir"
	KeyTaskDir              = "search.task.dir"
	KeyUnsetImageURL        = "search.unset.image.url"
	KeyHostURL              = "search.host.url"
	KeyStore                = "search.store"
	KeyDispatcherIdle       = "search.dispatcher.idle"
	KeyQueueSize            = "search.queue.size"
	KeyHTTPTimeout          = "search.http.timeout"
	KeySourceConfigurations = "source.configurations"
	KeyPollingInterval      = "source.polling.interval"
	KeyNDExUser             = "ndex.user"
	KeyNDExPassword         = "ndex.password"
	KeyNDExServer           = "ndex.server"
	KeyNDExUserAgent        = "ndex.useragent"

	envPrefix = "NDEXSEARCH"
)

// Store backends.
const (
	StoreFilesystem = "filesystem"
	StoreBadger     = "badger"
)

// Config holds the server configuration.
type Config struct {
	// DatabaseDir is the base directory for server data.
	// Default: /tmp
	DatabaseDir string

	// TaskDir is where task results are persisted.
	// Default: <DatabaseDir>/tasks
	TaskDir string

	// SourceConfigurationsFile is the JSON file listing the sources.
	// Relative paths are resolved against DatabaseDir.
	// Default: source.configurations.json
	SourceConfigurationsFile string

	// UnsetImageURL is the image shown for results that carry none.
	UnsetImageURL string

	// HostURL is the public NDEx host used for result deep links.
	HostURL string

	// Store selects the task store backend, filesystem or badger.
	// Default: filesystem
	Store string

	// PollingInterval is the pause between source catalog refreshes.
	// Default: 1m
	PollingInterval time.Duration

	// DispatcherIdle is how long the dispatcher sleeps on an empty queue.
	// Default: 10ms
	DispatcherIdle time.Duration

	// QueueSize is the dispatch queue capacity.
	// Default: 1024
	QueueSize int

	// HTTPTimeout bounds every backend request.
	// Default: 30s
	HTTPTimeout time.Duration

	// NDEx credentials and server for keyword searches.
	NDExUser      string
	NDExPassword  string
	NDExServer    string
	NDExUserAgent string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDatabaseDir sets the base data directory.
func WithDatabaseDir(dir string) ConfigOption {
	return func(c *Config) {
		c.DatabaseDir = dir
	}
}

// WithTaskDir sets the task results directory.
func WithTaskDir(dir string) ConfigOption {
	return func(c *Config) {
		c.TaskDir = dir
	}
}

// WithSourceConfigurationsFile sets the source configurations file.
func WithSourceConfigurationsFile(path string) ConfigOption {
	return func(c *Config) {
		c.SourceConfigurationsFile = path
	}
}

// WithStore selects the task store backend.
func WithStore(store string) ConfigOption {
	return func(c *Config) {
		c.Store = store
	}
}

// WithPollingInterval sets the catalog refresh interval.
func WithPollingInterval(interval time.Duration) ConfigOption {
	return func(c *Config) {
		c.PollingInterval = interval
	}
}

// WithHostURL sets the public NDEx host.
func WithHostURL(url string) ConfigOption {
	return func(c *Config) {
		c.HostURL = url
	}
}

// WithUnsetImageURL sets the placeholder image URL.
func WithUnsetImageURL(url string) ConfigOption {
	return func(c *Config) {
		c.UnsetImageURL = url
	}
}

// WithNDEx sets the NDEx server and credentials.
func WithNDEx(server, user, password string) ConfigOption {
	return func(c *Config) {
		c.NDExServer = server
		c.NDExUser = user
		c.NDExPassword = password
	}
}

// DefaultConfig returns a Config with the server defaults.
func DefaultConfig() *Config {
	return &Config{
		DatabaseDir:              "/tmp",
		SourceConfigurationsFile: "source.configurations.json",
		Store:                    StoreFilesystem,
		PollingInterval:          time.Minute,
		DispatcherIdle:           10 * time.Millisecond,
		QueueSize:                1024,
		HTTPTimeout:              30 * time.Second,
		NDExServer:               "http://public.ndexbio.org",
		NDExUserAgent:            "ndexsearch/1.0",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDatabaseDir("/var/lib/ndexsearch"),
//	    WithStore(StoreBadger),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the configuration file at path, applies NDEXSEARCH_ environment
// overrides and validates the result. An empty path uses defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
		}
	}

	cfg := &Config{
		DatabaseDir:              v.GetString(KeyDatabaseDir),
		TaskDir:                  v.GetString(KeyTaskDir),
		SourceConfigurationsFile: v.GetString(KeySourceConfigurations),
		UnsetImageURL:            v.GetString(KeyUnsetImageURL),
		HostURL:                  v.GetString(KeyHostURL),
		Store:                    v.GetString(KeyStore),
		PollingInterval:          v.GetDuration(KeyPollingInterval),
		DispatcherIdle:           v.GetDuration(KeyDispatcherIdle),
		QueueSize:                v.GetInt(KeyQueueSize),
		HTTPTimeout:              v.GetDuration(KeyHTTPTimeout),
		NDExUser:                 v.GetString(KeyNDExUser),
		NDExPassword:             v.GetString(KeyNDExPassword),
		NDExServer:               v.GetString(KeyNDExServer),
		NDExUserAgent:            v.GetString(KeyNDExUserAgent),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault(KeyDatabaseDir, d.DatabaseDir)
	v.SetDefault(KeyTaskDir, d.TaskDir)
	v.SetDefault(KeySourceConfigurations, d.SourceConfigurationsFile)
	v.SetDefault(KeyUnsetImageURL, d.UnsetImageURL)
	v.SetDefault(KeyHostURL, d.HostURL)
	v.SetDefault(KeyStore, d.Store)
	v.SetDefault(KeyPollingInterval, d.PollingInterval)
	v.SetDefault(KeyDispatcherIdle, d.DispatcherIdle)
	v.SetDefault(KeyQueueSize, d.QueueSize)
	v.SetDefault(KeyHTTPTimeout, d.HTTPTimeout)
	v.SetDefault(KeyNDExUser, d.NDExUser)
	v.SetDefault(KeyNDExPassword, d.NDExPassword)
	v.SetDefault(KeyNDExServer, d.NDExServer)
	v.SetDefault(KeyNDExUserAgent, d.NDExUserAgent)
}

// Normalize ensures the configuration is in a canonical form.
// It derives the task directory, resolves the source configurations file
// against the database directory and trims trailing slashes from URLs.
func (c *Config) Normalize() {
	if c.TaskDir == "" && c.DatabaseDir != "" {
		c.TaskDir = filepath.Join(c.DatabaseDir, "tasks")
	}
	if c.SourceConfigurationsFile != "" && !filepath.IsAbs(c.SourceConfigurationsFile) && c.DatabaseDir != "" {
		c.SourceConfigurationsFile = filepath.Join(c.DatabaseDir, c.SourceConfigurationsFile)
	}
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store == "" {
		c.Store = StoreFilesystem
	}
	c.HostURL = strings.TrimSuffix(c.HostURL, "/")
	c.NDExServer = strings.TrimSuffix(c.NDExServer, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	var errs []error
	if c.DatabaseDir == "" {
		errs = append(errs, ErrDatabaseDirRequired)
	}
	if c.SourceConfigurationsFile == "" {
		errs = append(errs, ErrSourceConfigurationsRequired)
	}
	if c.Store != StoreFilesystem && c.Store != StoreBadger {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStore, c.Store))
	}
	if c.PollingInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: polling interval %s", ErrInvalidDuration, c.PollingInterval))
	}
	if c.DispatcherIdle <= 0 {
		errs = append(errs, fmt.Errorf("%w: dispatcher idle %s", ErrInvalidDuration, c.DispatcherIdle))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: http timeout %s", ErrInvalidDuration, c.HTTPTimeout))
	}
	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidQueueSize, c.QueueSize))
	}
	return errors.Join(errs...)
}
