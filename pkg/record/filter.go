// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package record

import "strings"

// FilterOut returns a new map without the keys matching any of the patterns.
// Supports wildcard patterns:
//   - "prefix*" matches keys starting with "prefix"
//   - "*suffix" matches keys ending with "suffix"
//   - "*contains*" matches keys containing "contains"
//   - "exact" matches keys exactly
func FilterOut(m *Map, patterns []string) *Map {
	result := NewMap()
	for key, value := range m.All() {
		if !MatchesAny(key, patterns) {
			result.Set(key, value)
		}
	}
	return result
}

// FilterIn returns a new map with only keys that match the provided patterns.
// This is the complement of FilterOut.
func FilterIn(m *Map, patterns []string) *Map {
	result := NewMap()
	for key, value := range m.All() {
		if MatchesAny(key, patterns) {
			result.Set(key, value)
		}
	}
	return result
}

// MatchesAny reports whether key matches at least one of the wildcard patterns.
func MatchesAny(key string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchesPattern(key, pattern) {
			return true
		}
	}
	return false
}

// MatchesPattern checks if a key matches a wildcard pattern.
// Supports multiple wildcard segments, e.g., "a*b*c" matches "aXbYc".
func MatchesPattern(key, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	segments := strings.Split(pattern, "*")

	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		// First segment anchors at the start unless the pattern starts with *
		if i == 0 {
			if !strings.HasPrefix(key, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		// Last segment anchors at the end unless the pattern ends with *
		if i == len(segments)-1 {
			return len(key)-pos >= len(segment) && strings.HasSuffix(key[pos:], segment)
		}

		idx := strings.Index(key[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}

	return true
}
