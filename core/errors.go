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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNoSources indicates the query selected no sources.
	ErrNoSources = errors.New("no databases selected")

	// ErrInvalidSourceConfiguration indicates a SourceConfiguration failed validation.
	ErrInvalidSourceConfiguration = errors.New("invalid source configuration")

	// ErrUnknownSourceName indicates a source name outside the supported set.
	ErrUnknownSourceName = errors.New("unknown source name")

	// ErrEmptyEndpoint indicates a source configuration has no endpoint.
	ErrEmptyEndpoint = errors.New("endpoint cannot be empty")

	// ErrDuplicateSource indicates two configurations share a name.
	ErrDuplicateSource = errors.New("duplicate source configuration")
)
