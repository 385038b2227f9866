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
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/ndexsearch/core"
)

// ValidateTaskID rejects ids that would escape a task directory or collide with keys.
func ValidateTaskID(taskID string) error {
	if taskID == "" || taskID == "." || taskID == ".." ||
		strings.ContainsAny(taskID, `/\:`) || filepath.Base(taskID) != taskID {
		return fmt.Errorf("%w: %q", ErrInvalidTaskID, taskID)
	}
	return nil
}

// MarshalQueryResults serializes a QueryResults record to JSON.
func MarshalQueryResults(record *core.QueryResults) ([]byte, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalQueryResults deserializes a QueryResults record from JSON.
func UnmarshalQueryResults(data []byte) (*core.QueryResults, error) {
	var record core.QueryResults
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalCatalog serializes a Catalog to JSON.
func MarshalCatalog(catalog *core.Catalog) ([]byte, error) {
	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalCatalog deserializes a Catalog from JSON.
func UnmarshalCatalog(data []byte) (*core.Catalog, error) {
	var catalog core.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &catalog, nil
}
