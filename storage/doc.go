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


// Package storage provides the storage abstraction layer for ndexsearch.
//
// This package defines the TaskStore and CatalogCache interfaces that decouple
// durable persistence of task records from the search engine. Two backends
// are provided:
//
//   - filesystem: one directory per task holding queryresults.json
//   - badger: task records and the catalog cache in a BadgerDB database
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interface:
//
//	store, err := filesystem.NewTaskStore("/var/lib/ndexsearch/tasks")  // returns storage.TaskStore
//
// # Record Format
//
// Records are serialized as JSON with the field names used on the wire, so a
// persisted queryresults.json can be served to clients unchanged.
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	store, backend, err := badger.NewMemoryStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All store implementations must be safe for concurrent use.
//
// # Context Support
//
// All store methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
