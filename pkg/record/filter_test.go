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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func probeRecord() *Map {
	return NewMap().
		Set("base", Null()).
		Set("cpustats", Null()).
		Set("cpufreqs", Null()).
		Set("meminfo", Null()).
		Set("net_if", Null()).
		Set("netstat", Null()).
		Set("smart", Null())
}

func TestFilterOut(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		wantKeys []string
	}{
		{
			name:     "exact match",
			patterns: []string{"smart"},
			wantKeys: []string{"base", "cpustats", "cpufreqs", "meminfo", "net_if", "netstat"},
		},
		{
			name:     "prefix",
			patterns: []string{"cpu*"},
			wantKeys: []string{"base", "meminfo", "net_if", "netstat", "smart"},
		},
		{
			name:     "suffix",
			patterns: []string{"*stat"},
			wantKeys: []string{"base", "cpustats", "cpufreqs", "meminfo", "net_if", "smart"},
		},
		{
			name:     "contains",
			patterns: []string{"*et*"},
			wantKeys: []string{"base", "cpustats", "cpufreqs", "meminfo", "smart"},
		},
		{
			name:     "multiple patterns",
			patterns: []string{"cpu*", "net*"},
			wantKeys: []string{"base", "meminfo", "smart"},
		},
		{
			name:     "no patterns",
			patterns: nil,
			wantKeys: []string{"base", "cpustats", "cpufreqs", "meminfo", "net_if", "netstat", "smart"},
		},
		{
			name:     "multiple wildcards",
			patterns: []string{"*_*"},
			wantKeys: []string{"base", "cpustats", "cpufreqs", "meminfo", "netstat", "smart"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterOut(probeRecord(), tt.patterns)
			assert.Equal(t, tt.wantKeys, result.Keys())
		})
	}
}

func TestFilterIn(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		wantKeys []string
	}{
		{name: "exact", patterns: []string{"base"}, wantKeys: []string{"base"}},
		{name: "prefix keeps order", patterns: []string{"net*", "cpu*"}, wantKeys: []string{"cpustats", "cpufreqs", "net_if", "netstat"}},
		{name: "no patterns", patterns: nil, wantKeys: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterIn(probeRecord(), tt.patterns)
			if tt.wantKeys == nil {
				assert.Equal(t, 0, result.Len())
				return
			}
			assert.Equal(t, tt.wantKeys, result.Keys())
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		key     string
		pattern string
		want    bool
	}{
		{"meminfo_mem_total", "meminfo_*", true},
		{"meminfo_mem_total", "*_total", true},
		{"meminfo_mem_total", "meminfo*total", true},
		{"meminfo_mem_total", "mem*mem*total", true},
		{"abc", "a*bc*c", false},
		{"ab", "a*b*b", false},
		{"ab", "ab*b", false},
		{"anything", "*", true},
		{"", "*", true},
		{"base", "Base", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPattern(tt.key, tt.pattern))
		})
	}
}
