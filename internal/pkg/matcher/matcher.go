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

// Package matcher attributes GPU workloads to named processes.
package matcher

import (
	"fmt"
	"log/slog"

	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/processtable"
)

// Policy selects one workload when several resolve to the target name.
type Policy string

const (
	// PolicyLast picks the match reported last by the driver.
	PolicyLast Policy = "last"
	// PolicyFirst picks the match reported first by the driver.
	PolicyFirst Policy = "first"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyLast, PolicyFirst:
		return p, nil
	default:
		return "", fmt.Errorf("invalid match policy %q; possible values: %s, %s", s, PolicyLast, PolicyFirst)
	}
}

// ProcessInfo is a workload attributed to a process name.
type ProcessInfo struct {
	PID           uint32
	Name          string
	MemoryUsageMB uint64
}

func attribute(w collector.Workload, table *processtable.Table) ProcessInfo {
	return ProcessInfo{
		PID:           w.PID,
		Name:          table.Resolve(w.PID),
		MemoryUsageMB: w.UsedMemoryMB(),
	}
}

// Attribute resolves every workload of the snapshot, keeping driver order.
// Workloads whose process has exited get an empty Name.
func Attribute(snapshot *collector.Snapshot, table *processtable.Table) []ProcessInfo {
	out := make([]ProcessInfo, 0, len(snapshot.Workloads))
	for _, w := range snapshot.Workloads {
		out = append(out, attribute(w, table))
	}
	return out
}

// Match returns the workload whose resolved name equals target exactly.
// Comparison is case-sensitive; when several workloads match, policy decides.
// The boolean is false when nothing matched.
func Match(snapshot *collector.Snapshot, table *processtable.Table, target string, policy Policy) (ProcessInfo, bool) {
	var (
		selected ProcessInfo
		matches  int
	)

	for _, w := range snapshot.Workloads {
		if table.Resolve(w.PID) != target {
			continue
		}
		matches++
		if policy == PolicyFirst && matches > 1 {
			continue
		}
		selected = attribute(w, table)
	}

	if matches == 0 {
		return ProcessInfo{}, false
	}
	if matches > 1 {
		slog.Debug("Several workloads match the target",
			slog.String("target", target),
			slog.Int("matches", matches),
			slog.String("policy", string(policy)),
			slog.Uint64("selected_pid", uint64(selected.PID)))
	}

	return selected, true
}
