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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the minute-resolution key format used in the snapshot log.
const TimestampLayout = "2006-01-02 15:04"

var (
	// ErrNotObject is returned when a log line is not a JSON object.
	ErrNotObject = errors.New("line is not a JSON object")
	// ErrKeyCount is returned when a log line object does not have exactly one key.
	ErrKeyCount = errors.New("line object must have exactly one timestamp key")
	// ErrRecordNotMap is returned when the value under the timestamp key is not an object.
	ErrRecordNotMap = errors.New("record under timestamp key is not a JSON object")
)

// FormatTimestamp renders t as a snapshot timestamp key.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a snapshot timestamp key in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

// Snapshot is one timestamped collection of telemetry. It is immutable once constructed:
// NewSnapshot takes a deep copy of the record and the accessors never expose it for writing
// (Record returns a copy).
type Snapshot struct {
	timestamp string
	record    *Map
}

// NewSnapshot creates a Snapshot from a timestamp key and a record.
func NewSnapshot(timestamp string, rec *Map) Snapshot {
	return Snapshot{
		timestamp: timestamp,
		record:    rec.Clone(),
	}
}

// Timestamp returns the minute-resolution timestamp key.
func (s Snapshot) Timestamp() string { return s.timestamp }

// Record returns a copy of the snapshot record.
func (s Snapshot) Record() *Map { return s.record.Clone() }

// Get returns the value a source produced, without copying the whole record.
func (s Snapshot) Get(source string) (Value, bool) {
	v, ok := s.record.Get(source)
	if !ok {
		return Value{}, false
	}
	return v.Clone(), true
}

// Sources returns the source names present in the record, in collection order.
func (s Snapshot) Sources() []string { return s.record.Keys() }

// Len returns the number of sources in the record.
func (s Snapshot) Len() int { return s.record.Len() }

// EncodeLine serializes s as a single-line JSON object {timestamp: record}, without
// a trailing line terminator.
func EncodeLine(s Snapshot) ([]byte, error) {
	key, err := json.Marshal(s.timestamp)
	if err != nil {
		return nil, err
	}
	body, err := s.record.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(key) + len(body) + 3)
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeLine parses one log line produced by EncodeLine.
func DecodeLine(line []byte) (Snapshot, error) {
	var v Value
	if err := v.UnmarshalJSON(line); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrNotObject, err)
	}
	obj, ok := v.Map()
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}
	if obj.Len() != 1 {
		return Snapshot{}, fmt.Errorf("%w: got %d keys", ErrKeyCount, obj.Len())
	}
	ts := obj.keys[0]
	rec, ok := obj.vals[ts].Map()
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: got %s", ErrRecordNotMap, obj.vals[ts].Kind())
	}
	// Freshly decoded, nothing else holds a reference.
	return Snapshot{timestamp: ts, record: rec}, nil
}
