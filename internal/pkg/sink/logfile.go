/*
 * Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
)

const (
	DefaultLogPath    = "/tmp/gpu-usage.log"
	DefaultDelimiter  = ", "
	DefaultTimeFormat = "%a %b %e %T %Y"

	timestampSeparator = " | "
)

// ErrLogWrite is returned when the log file cannot be created or appended.
var ErrLogWrite = errors.New("cannot write usage log")

// LogAppender appends one line per invocation to a log file. The file is
// created when missing and never truncated.
//
// Concurrent invocations serialize on an advisory lock where the platform
// supports one; writers that do not take the lock can still interleave.
type LogAppender struct {
	path       string
	delimiter  string
	timeFormat *strftime.Strftime
	now        func() time.Time
}

// LogAppenderOption configures a LogAppender.
type LogAppenderOption func(*LogAppender)

// WithDelimiter sets the separator placed between fields. Default is ", ".
func WithDelimiter(delimiter string) LogAppenderOption {
	return func(a *LogAppender) {
		a.delimiter = delimiter
	}
}

// WithTimeFormat sets the strftime layout of the leading timestamp.
func WithTimeFormat(f *strftime.Strftime) LogAppenderOption {
	return func(a *LogAppender) {
		a.timeFormat = f
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) LogAppenderOption {
	return func(a *LogAppender) {
		a.now = now
	}
}

// NewLogAppender creates an appender for path.
func NewLogAppender(path string, opts ...LogAppenderOption) (*LogAppender, error) {
	a := &LogAppender{
		path:      path,
		delimiter: DefaultDelimiter,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.timeFormat == nil {
		f, err := strftime.New(DefaultTimeFormat)
		if err != nil {
			return nil, err
		}
		a.timeFormat = f
	}

	return a, nil
}

// Path returns the log file path.
func (a *LogAppender) Path() string {
	return a.path
}

// FormatLine renders the record, including the trailing newline. When target
// is nil one segment is written per workload.
func (a *LogAppender) FormatLine(snapshot *collector.Snapshot, target *matcher.ProcessInfo, workloads []matcher.ProcessInfo) string {
	fields := []string{
		snapshot.Name,
		"Total utilization: " + snapshot.Utilization(),
		fmt.Sprintf("Memory usage: %d/%d MB", snapshot.MemoryUsedMB, snapshot.MemoryTotalMB),
		fmt.Sprintf("Temperature: %d°C", snapshot.TemperatureC),
	}

	if target != nil {
		fields = append(fields, usageSegment(target.Name, target.MemoryUsageMB))
	} else {
		for _, w := range workloads {
			fields = append(fields, usageSegment(workloadLabel(w), w.MemoryUsageMB))
		}
	}

	var b strings.Builder
	b.WriteString(a.timeFormat.FormatString(a.now().UTC()))
	b.WriteString(timestampSeparator)
	b.WriteString(strings.Join(fields, a.delimiter))
	b.WriteByte('\n')
	return b.String()
}

// Append writes the record with a single write call. Errors wrap ErrLogWrite.
func (a *LogAppender) Append(snapshot *collector.Snapshot, target *matcher.ProcessInfo, workloads []matcher.ProcessInfo) (err error) {
	line := a.FormatLine(snapshot, target, workloads)

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogWrite, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrLogWrite, closeErr)
		}
	}()

	unlock, lockErr := lockFile(f)
	if lockErr != nil {
		slog.Warn("Appending without file lock",
			slog.String("path", a.path),
			slog.String("error", lockErr.Error()))
	} else {
		defer unlock()
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: %w", ErrLogWrite, err)
	}

	slog.Debug("Appended usage log line", slog.String("path", a.path))

	return nil
}
