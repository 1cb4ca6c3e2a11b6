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

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestNewParser(t *testing.T) {
	tests := []struct {
		name                 string
		opts                 []Option
		expectedDelimiter    string
		expectedMaxSize      int
		expectedSkipComments bool
		expectedKVDelimiter  string
		expectedVTrimChars   string
	}{
		{
			name:                "default options",
			expectedDelimiter:   "\n",
			expectedMaxSize:     1 << 20,
			expectedKVDelimiter: ":",
		},
		{
			name: "all options",
			opts: []Option{
				WithDelimiter(";"),
				WithMaxSize(2048),
				WithSkipComments(true),
				WithKVDelimiter("="),
				WithVTrimChars(`"'`),
			},
			expectedDelimiter:    ";",
			expectedMaxSize:      2048,
			expectedSkipComments: true,
			expectedKVDelimiter:  "=",
			expectedVTrimChars:   `"'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.opts...)
			if p.delimiter != tt.expectedDelimiter {
				t.Errorf("delimiter = %q, want %q", p.delimiter, tt.expectedDelimiter)
			}
			if p.maxSize != tt.expectedMaxSize {
				t.Errorf("maxSize = %d, want %d", p.maxSize, tt.expectedMaxSize)
			}
			if p.skipComments != tt.expectedSkipComments {
				t.Errorf("skipComments = %v, want %v", p.skipComments, tt.expectedSkipComments)
			}
			if p.kvDelimiter != tt.expectedKVDelimiter {
				t.Errorf("kvDelimiter = %q, want %q", p.kvDelimiter, tt.expectedKVDelimiter)
			}
			if p.vTrimChars != tt.expectedVTrimChars {
				t.Errorf("vTrimChars = %q, want %q", p.vTrimChars, tt.expectedVTrimChars)
			}
		})
	}
}

func TestGetLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		opts     []Option
		expected []string
		errMsg   string
	}{
		{
			name:     "uptime",
			content:  "350735.47 234388.90\n",
			expected: []string{"350735.47 234388.90"},
		},
		{
			name:     "blank lines dropped",
			content:  "line1\n\n   \nline2\n\n",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "hash kept by default",
			content:  "ID# ATTRIBUTE_NAME\n  1 Raw_Read_Error_Rate",
			expected: []string{"ID# ATTRIBUTE_NAME", "1 Raw_Read_Error_Rate"},
		},
		{
			name:     "comments skipped when enabled",
			content:  "# comment\nvalue",
			opts:     []Option{WithSkipComments(true)},
			expected: []string{"value"},
		},
		{
			name:     "custom delimiter",
			content:  "a;b;;c",
			opts:     []Option{WithDelimiter(";")},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty file",
			content:  "",
			expected: []string{},
		},
		{
			name:    "too large",
			content: strings.Repeat("a", 2000),
			opts:    []Option{WithMaxSize(1000)},
			errMsg:  "exceeds maximum size",
		},
		{
			name:    "invalid UTF-8",
			content: "valid\xff\xfeinvalid",
			errMsg:  "not valid UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.content)
			result, err := NewParser(tt.opts...).GetLines(path)

			if tt.errMsg != "" {
				if err == nil {
					t.Fatalf("GetLines() expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("GetLines() error = %q, want error containing %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetLines() unexpected error: %v", err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("GetLines() returned %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("GetLines()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestGetLines_EmptyPath(t *testing.T) {
	_, err := NewParser().GetLines("")
	if err == nil || !strings.Contains(err.Error(), "cannot be empty") {
		t.Errorf("GetLines(\"\") error = %v, want error containing 'cannot be empty'", err)
	}
}

func TestGetLines_NonExistentFile(t *testing.T) {
	_, err := NewParser().GetLines("/nonexistent/file/path.txt")
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("GetLines() error = %v, want error containing 'failed to read file'", err)
	}
}

func TestGetFields(t *testing.T) {
	path := writeTemp(t, "                    CPU0       CPU1\n          HI:          1          2\n       TIMER:    3   4\n")

	rows, err := NewParser().GetFields(path)
	if err != nil {
		t.Fatalf("GetFields() unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("GetFields() returned %d rows, want 3", len(rows))
	}
	want := []string{"TIMER:", "3", "4"}
	for i, f := range want {
		if rows[2][i] != f {
			t.Errorf("rows[2][%d] = %q, want %q", i, rows[2][i], f)
		}
	}
}

func TestToMap(t *testing.T) {
	lines := []string{
		"Device Model:     Samsung SSD 860 EVO 500GB",
		"Serial Number:    S3Z1NB0K",
		"no delimiter here",
		"Local Time is:    Mon Jan  1 10:00:00 2024",
		"Serial Number:    OVERRIDE",
	}

	m := NewParser().ToMap(lines)

	wantKeys := []string{"Device Model", "Serial Number", "Local Time is"}
	keys := m.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("ToMap() keys = %v, want %v", keys, wantKeys)
	}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], wantKeys[i])
		}
	}

	v, _ := m.Get("Local Time is")
	if s, _ := v.Text(); s != "Mon Jan  1 10:00:00 2024" {
		t.Errorf("value split on later delimiter: %q", s)
	}
	v, _ = m.Get("Serial Number")
	if s, _ := v.Text(); s != "OVERRIDE" {
		t.Errorf("repeated key should keep last value, got %q", s)
	}
}

func TestToMap_TrimChars(t *testing.T) {
	m := NewParser(WithKVDelimiter("="), WithVTrimChars(`"`)).ToMap([]string{`NAME="Ubuntu"`})
	v, ok := m.Get("NAME")
	if !ok {
		t.Fatal("expected NAME key")
	}
	if s, _ := v.Text(); s != "Ubuntu" {
		t.Errorf("NAME = %q, want Ubuntu", s)
	}
}
