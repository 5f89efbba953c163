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

// Package report runs one capture, correlate and report pass.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lestrrat-go/strftime"

	"github.com/NVIDIA/gpu-usage/internal/pkg/appconfig"
	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
	"github.com/NVIDIA/gpu-usage/internal/pkg/notification"
	"github.com/NVIDIA/gpu-usage/internal/pkg/nvmlprovider"
	"github.com/NVIDIA/gpu-usage/internal/pkg/processtable"
	"github.com/NVIDIA/gpu-usage/internal/pkg/sink"
)

const notificationAppName = "gpu-usage"

var (
	// ErrNothingToDo is returned when neither a target nor logging was requested.
	ErrNothingToDo = errors.New("a process name or logging must be specified")
	// ErrProcessNotFound is returned when no graphics workload resolves to the target.
	ErrProcessNotFound = errors.New("process not found")
)

// Result is what one pass produced.
type Result struct {
	Snapshot  *collector.Snapshot
	Workloads []matcher.ProcessInfo
	// Target is nil when no target was requested.
	Target *matcher.ProcessInfo
}

// Reporter wires the collaborators of a pass. The zero value is not usable;
// construct it with NewReporter.
type Reporter struct {
	config     *appconfig.Config
	nvml       nvmlprovider.NVML
	processes  processtable.Source
	notifier   notification.Notifier
	stdout     io.Writer
	logOptions []sink.LogAppenderOption
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithNVML replaces the process-wide NVML client.
func WithNVML(n nvmlprovider.NVML) Option {
	return func(r *Reporter) {
		r.nvml = n
	}
}

// WithProcessSource replaces the OS process table.
func WithProcessSource(src processtable.Source) Option {
	return func(r *Reporter) {
		r.processes = src
	}
}

// WithNotifier replaces the D-Bus notifier.
func WithNotifier(n notification.Notifier) Option {
	return func(r *Reporter) {
		r.notifier = n
	}
}

// WithStdout sets where console output goes.
func WithStdout(w io.Writer) Option {
	return func(r *Reporter) {
		r.stdout = w
	}
}

// WithLogOptions passes extra options to the log appender.
func WithLogOptions(opts ...sink.LogAppenderOption) Option {
	return func(r *Reporter) {
		r.logOptions = append(r.logOptions, opts...)
	}
}

func NewReporter(config *appconfig.Config, opts ...Option) *Reporter {
	r := &Reporter{
		config: config,
		stdout: os.Stdout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.nvml == nil {
		r.nvml = nvmlprovider.Client()
	}
	if r.processes == nil {
		r.processes = processtable.NewGopsutilSource()
	}
	if r.notifier == nil {
		r.notifier = notification.NewDBusNotifier(notificationAppName)
	}

	return r
}

// Run performs the pass. When the target is not found no sink is written
// except the textfile, and ErrProcessNotFound is returned.
func (r *Reporter) Run(ctx context.Context) (*Result, error) {
	cfg := r.config
	if !cfg.HasWork() {
		return nil, ErrNothingToDo
	}

	snapshot, err := collector.Capture(r.nvml, cfg.DeviceIndex)
	if err != nil {
		return nil, err
	}

	table, err := processtable.Capture(ctx, r.processes)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Snapshot:  snapshot,
		Workloads: matcher.Attribute(snapshot, table),
	}

	if cfg.TextfilePath != "" {
		if err := sink.NewTextfileWriter(cfg.TextfilePath).Write(snapshot, result.Workloads); err != nil {
			return result, err
		}
	}

	if cfg.Target != "" {
		policy := matcher.Policy(cfg.MatchPolicy)
		if policy == "" {
			policy = matcher.PolicyLast
		}
		p, ok := matcher.Match(snapshot, table, cfg.Target, policy)
		if !ok {
			return result, fmt.Errorf("%w: %q on device %d", ErrProcessNotFound, cfg.Target, cfg.DeviceIndex)
		}
		result.Target = &p
	}

	if cfg.NotifyEnabled() {
		if err := sink.Notify(r.notifier, *result.Target, cfg.NotificationIcon); err != nil {
			slog.Warn("Failed to show desktop notification; continuing",
				slog.String("error", err.Error()))
		}
	}

	if cfg.PrintInfo {
		if err := sink.NewConsolePrinter(r.stdout).Print(snapshot, result.Target, result.Workloads); err != nil {
			return result, fmt.Errorf("failed to print report: %w", err)
		}
	}

	if cfg.Logging {
		if err := r.appendLog(result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (r *Reporter) appendLog(result *Result) error {
	cfg := r.config

	var opts []sink.LogAppenderOption
	if cfg.Delimiter != "" {
		opts = append(opts, sink.WithDelimiter(cfg.Delimiter))
	}
	if cfg.LogTimeFormat != "" {
		f, err := strftime.New(cfg.LogTimeFormat)
		if err != nil {
			return fmt.Errorf("invalid log time format %q: %w", cfg.LogTimeFormat, err)
		}
		opts = append(opts, sink.WithTimeFormat(f))
	}
	opts = append(opts, r.logOptions...)

	path := cfg.LogPath
	if path == "" {
		path = sink.DefaultLogPath
	}

	appender, err := sink.NewLogAppender(path, opts...)
	if err != nil {
		return err
	}

	return appender.Append(result.Snapshot, result.Target, result.Workloads)
}
