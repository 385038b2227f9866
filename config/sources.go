package config

import (
	"fmt"
	"strings"

	"github.com/poiesic/ndexsearch/core"
	"github.com/spf13/viper"
)

// LoadSourceConfigurations reads, normalizes and validates the JSON source
// configurations file.
func LoadSourceConfigurations(path string) (*core.SourceConfigurations, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	var scs core.SourceConfigurations
	if err := v.Unmarshal(&scs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	NormalizeSourceConfigurations(&scs)
	if err := core.ValidateSourceConfigurations(&scs); err != nil {
		return nil, err
	}
	return &scs, nil
}

// NormalizeSourceConfigurations trims names and endpoints. Enrichment
// endpoints lose a trailing slash; interactome endpoints gain one.
func NormalizeSourceConfigurations(scs *core.SourceConfigurations) {
	for i := range scs.Sources {
		sc := &scs.Sources[i]
		sc.Name = strings.TrimSpace(sc.Name)
		sc.Endpoint = strings.TrimSpace(sc.Endpoint)
		if sc.Endpoint == "" {
			continue
		}
		switch {
		case sc.Name == core.SourceEnrichment:
			sc.Endpoint = strings.TrimSuffix(sc.Endpoint, "/")
		case core.IsInteractomeSource(sc.Name):
			if !strings.HasSuffix(sc.Endpoint, "/") {
				sc.Endpoint += "/"
			}
		}
	}
}

// ExampleSourceConfigurations returns a source configuration listing every
// supported source.
func ExampleSourceConfigurations() *core.SourceConfigurations {
	return &core.SourceConfigurations{
		Sources: []core.SourceConfiguration{
			{
				Name:        core.SourceEnrichment,
				Description: "This is a description of enrichment source",
				Endpoint:    "http://localhost:8095/enrichment/v1",
				UUID:        "33b12234-bfb4-4b44-a0e6-4c4ad6f12a39",
			},
			{
				Name:        core.SourceInteractomePPI,
				Description: "This is a description of interactome-ppi service",
				Endpoint:    "http://localhost:8096/interactome/ppi/v1/",
				UUID:        "0c7b1d25-55a6-4d45-9b53-f2e32d1e1e17",
			},
			{
				Name:        core.SourceInteractomeAssociation,
				Description: "This is a description of interactome-association service",
				Endpoint:    "http://localhost:8096/interactome/geneassociation/v1/",
				UUID:        "b0a2a3ac-9c87-4b9c-8fd1-01d6c2a3c5d4",
			},
			{
				Name:        core.SourceKeyword,
				Description: "This is a description of keyword source",
				Endpoint:    "http://public.ndexbio.org",
				UUID:        "7f6b4f52-3d3e-4a58-9b0b-52f6e0f1c1a8",
			},
		},
	}
}

// ExampleConfig returns an example YAML configuration file.
func ExampleConfig() string {
	d := DefaultConfig()
	return fmt.Sprintf(`# ndexsearch configuration
# Every key can be overridden with an environment variable, for example
# NDEXSEARCH_SEARCH_DATABASE_DIR=/var/lib/ndexsearch
search:
  database:
    dir: %s
  task:
    dir: %s
  unset:
    image:
      url: http://ndexbio.org/images/new_landing_page_logo.06974471.png
  host:
    url: http://public.ndexbio.org
  store: %s
  dispatcher:
    idle: %s
  queue:
    size: %d
  http:
    timeout: %s
source:
  configurations: %s
  polling:
    interval: %s
ndex:
  user: bob
  password: bobpassword
  server: %s
  useragent: %s
`,
		d.DatabaseDir,
		"/tmp/tasks",
		d.Store,
		d.DispatcherIdle,
		d.QueueSize,
		d.HTTPTimeout,
		d.SourceConfigurationsFile,
		d.PollingInterval,
		d.NDExServer,
		d.NDExUserAgent,
	)
}
