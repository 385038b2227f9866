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

import "fmt"

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - SourceList must not be empty
//
// NOT validated:
//   - GeneList (backends decide what an empty or unknown gene list means)
//   - source names (unconfigured sources fail the task during dispatch)
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if len(query.SourceList) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrNoSources)
	}

	return nil
}

// ValidateSourceConfiguration validates a SourceConfiguration.
//
// Validation rules:
//   - Name must be one of the supported source names
//   - Endpoint must not be empty
func ValidateSourceConfiguration(sc *SourceConfiguration) error {
	if sc == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalidSourceConfiguration)
	}

	if !IsKnownSource(sc.Name) {
		return fmt.Errorf("%w: %w %q", ErrInvalidSourceConfiguration, ErrUnknownSourceName, sc.Name)
	}

	if sc.Endpoint == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSourceConfiguration, sc.Name, ErrEmptyEndpoint)
	}

	return nil
}

// ValidateSourceConfigurations validates every configuration and rejects duplicate names.
func ValidateSourceConfigurations(scs *SourceConfigurations) error {
	if scs == nil {
		return fmt.Errorf("%w: configurations are nil", ErrInvalidSourceConfiguration)
	}
	seen := make(map[string]struct{}, len(scs.Sources))
	for i := range scs.Sources {
		sc := &scs.Sources[i]
		if err := ValidateSourceConfiguration(sc); err != nil {
			return err
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("%w: %w %q", ErrInvalidSourceConfiguration, ErrDuplicateSource, sc.Name)
		}
		seen[sc.Name] = struct{}{}
	}
	return nil
}
