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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ndexsearch/core"
	"github.com/poiesic/ndexsearch/storage"
)

// CatalogRepository implements storage.CatalogCache for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogCache = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{
		backend: backend,
	}
}

// SaveCatalog persists the latest catalog snapshot.
func (r *CatalogRepository) SaveCatalog(ctx context.Context, catalog *core.Catalog) error {
	value, err := storage.MarshalCatalog(catalog)
	if err != nil {
		return err
	}
	return r.backend.update(func(tx *badger.Txn) error {
		return tx.Set([]byte(catalogKey), value)
	})
}

// LoadCatalog retrieves the latest catalog snapshot.
// Returns nil, nil if no catalog exists.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (*core.Catalog, error) {
	var catalog *core.Catalog
	err := r.backend.view(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(catalogKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			catalog, unmarshalErr = storage.UnmarshalCatalog(val)
			return unmarshalErr
		})
	})

	return catalog, err
}
