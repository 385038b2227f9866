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


package ndexsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/ndexsearch/config"
	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/engine"
	"github.com/poiesic/ndexsearch/source"
	"github.com/poiesic/ndexsearch/source/rest"
	"github.com/poiesic/ndexsearch/storage"
	"github.com/poiesic/ndexsearch/storage/badger"
	"github.com/poiesic/ndexsearch/storage/filesystem"
)

// BadgerDirName is the badger directory under the database dir.
const BadgerDirName = "badger"

var (
	// ErrConfigRequired indicates a nil configuration.
	ErrConfigRequired = errors.New("ndexsearch: config is required")

	// ErrUnsupportedSource indicates a configured source with no adapter implementation.
	ErrUnsupportedSource = errors.New("ndexsearch: unsupported source")
)

// Service owns the task store, backend clients, adapters and engine of
// one search server.
type Service struct {
	cfg     *config.Config
	sources *core.SourceConfigurations
	backend *badger.Backend
	engine  *engine.Engine
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger        *slog.Logger
	sources       *core.SourceConfigurations
	engineOptions []engine.Option
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSourceConfigurations uses scs instead of reading the configured
// source configurations file.
func WithSourceConfigurations(scs *core.SourceConfigurations) ServiceOption {
	return func(o *serviceOptions) {
		o.sources = scs
	}
}

// WithEngineOptions appends engine options applied after the ones derived
// from the configuration.
func WithEngineOptions(opts ...engine.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// NewService validates cfg, opens the configured task store, builds one
// adapter per configured source and constructs the engine. The engine is
// not started; call Start.
func NewService(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scs := options.sources
	if scs == nil {
		loaded, err := config.LoadSourceConfigurations(cfg.SourceConfigurationsFile)
		if err != nil {
			return nil, err
		}
		scs = loaded
	} else {
		config.NormalizeSourceConfigurations(scs)
		if err := core.ValidateSourceConfigurations(scs); err != nil {
			return nil, err
		}
	}

	s := &Service{
		cfg:     cfg,
		sources: scs,
		logger:  options.logger.With("component", "service"),
	}

	store, cache, err := s.openStore(options.logger)
	if err != nil {
		return nil, err
	}

	adapters, err := newAdapters(cfg, scs, options.logger)
	if err != nil {
		store.Close()
		s.closeBackend()
		return nil, err
	}

	engineOpts := []engine.Option{
		engine.WithLogger(options.logger),
		engine.WithQueueSize(cfg.QueueSize),
		engine.WithDispatcherIdle(cfg.DispatcherIdle),
		engine.WithCatalogInterval(cfg.PollingInterval),
	}
	if cache != nil {
		engineOpts = append(engineOpts, engine.WithCatalogCache(cache))
	}
	engineOpts = append(engineOpts, options.engineOptions...)

	e, err := engine.New(store, scs, adapters, engineOpts...)
	if err != nil {
		for _, a := range adapters {
			a.Shutdown()
		}
		store.Close()
		s.closeBackend()
		return nil, err
	}
	s.engine = e
	return s, nil
}

func (s *Service) openStore(logger *slog.Logger) (storage.TaskStore, storage.CatalogCache, error) {
	switch s.cfg.Store {
	case config.StoreBadger:
		backend, err := badger.OpenBackend(filepath.Join(s.cfg.DatabaseDir, BadgerDirName), false, badger.WithBackendLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		store, err := badger.NewTaskStore(backend)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		s.backend = backend
		if repo, ok := store.(*badger.TaskRepository); ok {
			if n, err := repo.Count(); err == nil {
				s.logger.Info("opened badger task store", "dir", s.cfg.DatabaseDir, "tasks", n)
			}
		}
		return store, badger.NewCatalogRepository(backend), nil
	default:
		store, err := filesystem.NewTaskStore(s.cfg.TaskDir, filesystem.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info("opened filesystem task store", "dir", s.cfg.TaskDir)
		return store, nil, nil
	}
}

func newAdapters(cfg *config.Config, scs *core.SourceConfigurations, logger *slog.Logger) ([]source.Adapter, error) {
	restOpts := []rest.Option{
		rest.WithTimeout(cfg.HTTPTimeout),
		rest.WithLogger(logger),
	}
	sourceOpts := []source.Option{
		source.WithLogger(logger),
		source.WithUnsetImageURL(cfg.UnsetImageURL),
		source.WithHostURL(cfg.HostURL),
	}

	adapters := make([]source.Adapter, 0, len(scs.Sources))
	for _, sc := range scs.Sources {
		a, err := newAdapter(cfg, sc, restOpts, sourceOpts)
		if err != nil {
			for _, built := range adapters {
				built.Shutdown()
			}
			return nil, fmt.Errorf("%s: %w", sc.Name, err)
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func newAdapter(cfg *config.Config, sc core.SourceConfiguration, restOpts []rest.Option, sourceOpts []source.Option) (source.Adapter, error) {
	switch {
	case sc.Name == core.SourceEnrichment:
		client, err := rest.NewEnrichmentClient(sc.Endpoint, restOpts...)
		if err != nil {
			return nil, err
		}
		return source.NewEnrichmentAdapter(client, sourceOpts...)
	case sc.Name == core.SourceKeyword:
		server := cfg.NDExServer
		if server == "" {
			server = sc.Endpoint
		}
		opts := append([]rest.Option{
			rest.WithUserAgent(cfg.NDExUserAgent),
			rest.WithBasicAuth(cfg.NDExUser, cfg.NDExPassword),
		}, restOpts...)
		client, err := rest.NewNDExClient(server, opts...)
		if err != nil {
			return nil, err
		}
		return source.NewKeywordAdapter(client, sourceOpts...)
	case core.IsInteractomeSource(sc.Name):
		client, err := rest.NewInteractomeClient(sc.Endpoint, restOpts...)
		if err != nil {
			return nil, err
		}
		return source.NewInteractomeAdapter(sc.Name, client, sourceOpts...)
	default:
		return nil, ErrUnsupportedSource
	}
}

// Start launches the dispatcher and catalog refresher.
func (s *Service) Start() {
	s.engine.Start()
}

// Engine returns the search engine.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// Config returns the validated configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Sources returns the loaded source configurations.
func (s *Service) Sources() *core.SourceConfigurations {
	return s.sources
}

// Close shuts the engine down and closes the badger backend if one is open.
func (s *Service) Close() error {
	var errs []error
	if err := s.engine.Shutdown(); err != nil {
		s.logger.Error("error shutting down engine", "err", err)
		errs = append(errs, err)
	}
	if err := s.closeBackend(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Service) closeBackend() error {
	if s.backend == nil || s.backend.IsClosed() {
		return nil
	}
	return s.backend.Close()
}
