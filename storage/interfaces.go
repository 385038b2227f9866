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


package storage

import (
	"context"

	"github.com/poiesic/ndexsearch/core"
)

// TaskStore provides durable storage for task records.
type TaskStore interface {
	// Prepare creates whatever per-task space the store needs before
	// the first Save. Calling Prepare for an existing task is not an error.
	Prepare(ctx context.Context, taskID string) error

	// Save writes the record for taskID, replacing any previous copy.
	Save(ctx context.Context, taskID string, record *core.QueryResults) error

	// Load retrieves the record for taskID.
	// Returns ErrNotFound if no record exists.
	// Returns an error wrapping ErrSerializationFailed if the stored copy is corrupt.
	Load(ctx context.Context, taskID string) (*core.QueryResults, error)

	// Delete removes the record and any per-task space for taskID.
	// Deleting an unknown task is not an error.
	Delete(ctx context.Context, taskID string) error

	// Close releases resources held by the store.
	Close() error
}

// CatalogCache persists the last published source catalog so a restarted
// engine can start from last-known values.
type CatalogCache interface {
	// SaveCatalog persists the catalog snapshot.
	SaveCatalog(ctx context.Context, catalog *core.Catalog) error

	// LoadCatalog retrieves the last saved catalog.
	// Returns nil, nil if no catalog was saved yet.
	LoadCatalog(ctx context.Context) (*core.Catalog, error)
}
