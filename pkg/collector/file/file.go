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
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser reads line-oriented kernel files and command output.
type Parser struct {
	delimiter    string
	maxSize      int
	skipComments bool
	kvDelimiter  string
	vTrimChars   string
}

// WithDelimiter sets the delimiter used to split entries.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum content size in bytes.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with "#" are dropped.
// Default is false; kernel files have no comments and "#" is meaningful in
// some command output (smartctl's "ID#" header).
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used by ToMap.
// Default is ":".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVTrimChars sets characters trimmed from values in ToMap.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// NewParser creates a new parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:   "\n",
		maxSize:     1 << 20, // 1MB default
		kvDelimiter: ":",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at path and returns its non-empty, trimmed entries.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	lines, err := p.SplitLines(b)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", path, err)
	}
	return lines, nil
}

// SplitLines validates content and splits it into non-empty, trimmed entries.
func (p *Parser) SplitLines(b []byte) ([]string, error) {
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("content exceeds maximum size of %d bytes", p.maxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content is not valid UTF-8")
	}

	parts := strings.Split(string(b), p.delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result, nil
}

// GetFields reads the file at path and splits every line into whitespace-separated fields.
func (p *Parser) GetFields(path string) ([][]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(lines))
	for i, line := range lines {
		out[i] = strings.Fields(line)
	}
	return out, nil
}

// ToMap splits each line once on the key-value delimiter and returns the pairs
// in line order as string values. Lines without the delimiter are skipped.
// A repeated key keeps its first position and its last value.
func (p *Parser) ToMap(lines []string) *record.Map {
	result := record.NewMap()
	for _, line := range lines {
		key, value, ok := strings.Cut(line, p.kvDelimiter)
		if !ok {
			slog.Debug("line without delimiter, skipping",
				"line", line,
				"delimiter", p.kvDelimiter,
			)
			continue
		}
		value = strings.TrimSpace(value)
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		result.Set(strings.TrimSpace(key), record.Str(value))
	}
	return result
}
