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

package snaplog

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// MaxLineSize is the longest log line ReadLines accepts.
const MaxLineSize = 16 * 1024 * 1024

// ErrLineTooLong marks a line longer than MaxLineSize.
var ErrLineTooLong = stderrors.New("line exceeds maximum size")

// Line decoding errors, re-exported from the record package.
var (
	ErrNotObject    = record.ErrNotObject
	ErrKeyCount     = record.ErrKeyCount
	ErrRecordNotMap = record.ErrRecordNotMap
)

// EncodeLine serializes a snapshot as one compact JSON object without a terminator.
func EncodeLine(s record.Snapshot) ([]byte, error) {
	return record.EncodeLine(s)
}

// DecodeLine parses a single log line.
func DecodeLine(line []byte) (record.Snapshot, error) {
	return record.DecodeLine(line)
}

// AppendSnapshot appends snap as one line to the log at path, creating the file
// when it does not exist. The line is encoded before the file is opened, so an
// encoding failure leaves the log untouched.
func AppendSnapshot(path string, snap record.Snapshot) (err error) {
	line, err := record.EncodeLine(snap)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecord, "failed to encode snapshot", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to open snapshot log", err,
			map[string]any{"path": path})
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = stderrors.Join(err, errors.WrapWithContext(errors.ErrCodeIO,
				"failed to close snapshot log", cerr, map[string]any{"path": path}))
		}
	}()

	if _, err := f.Write(line); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to append snapshot", err,
			map[string]any{"path": path})
	}
	return nil
}

// Line is one physical line of a snapshot log.
type Line struct {
	// No is the 1-based line number.
	No int
	// Data is the line without its terminator. It is nil when Err is set.
	Data []byte
	// Err is set when the line could not be read as a whole, such as a line
	// longer than MaxLineSize.
	Err error
}

// ReadLines returns every line of r without its terminator, blank lines
// included so numbering follows the file. Lines are not decoded, so malformed
// content is left for the caller to report. A line longer than MaxLineSize is
// drained and returned with Err set; reading continues with the next line.
func ReadLines(r io.Reader) ([]Line, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var lines []Line
	for no := 1; ; no++ {
		data, tooLong, err := readLine(br)
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to read log after %d lines", len(lines)), err)
		}
		if tooLong {
			lines = append(lines, Line{No: no, Err: fmt.Errorf("%w (max %d bytes)", ErrLineTooLong, MaxLineSize)})
			continue
		}
		lines = append(lines, Line{No: no, Data: data})
	}
}

// readLine returns the next line without its terminator. Once a line outgrows
// MaxLineSize the rest of it is discarded and tooLong is reported. io.EOF is
// returned only when no bytes are left.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, rerr := br.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		// Room for the terminator and a trailing CR.
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineSize+2 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		if rerr == io.EOF {
			if !read {
				return nil, false, io.EOF
			}
			break
		}
		if rerr != nil {
			return nil, false, rerr
		}
		break
	}
	if tooLong {
		return nil, true, nil
	}

	buf = bytes.TrimSuffix(buf, []byte{'\n'})
	// Trailing CR from logs edited on other systems.
	buf = bytes.TrimSuffix(buf, []byte{'\r'})
	if len(buf) > MaxLineSize {
		return nil, true, nil
	}
	if buf == nil {
		buf = []byte{}
	}
	return buf, false, nil
}

// ReadFile returns the raw lines of the log at path.
func ReadFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		code := errors.ErrCodeIO
		if stderrors.Is(err, os.ErrNotExist) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to open snapshot log", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	return ReadLines(f)
}
