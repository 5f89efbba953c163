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

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/processtable"
)

func mb(n uint64) uint64 { return n << 20 }

func TestMatch(t *testing.T) {
	table := processtable.NewTable([]processtable.Record{
		{PID: 100, Name: "firefox"},
		{PID: 101, Name: "firefox"},
		{PID: 102, Name: "firefox"},
		{PID: 200, Name: "Xorg"},
		{PID: 300, Name: "Firefox"},
	})

	tests := []struct {
		name      string
		workloads []collector.Workload
		target    string
		policy    Policy
		want      ProcessInfo
		wantFound bool
	}{
		{
			name:   "Empty workload list",
			target: "firefox",
			policy: PolicyLast,
		},
		{
			name:      "Single match",
			workloads: []collector.Workload{{PID: 100, UsedMemoryBytes: 104857600, MemoryKnown: true}},
			target:    "firefox",
			policy:    PolicyLast,
			want:      ProcessInfo{PID: 100, Name: "firefox", MemoryUsageMB: 100},
			wantFound: true,
		},
		{
			name:      "Single match with unknown memory",
			workloads: []collector.Workload{{PID: 100}},
			target:    "firefox",
			policy:    PolicyLast,
			want:      ProcessInfo{PID: 100, Name: "firefox", MemoryUsageMB: 0},
			wantFound: true,
		},
		{
			name: "Last of several matches",
			workloads: []collector.Workload{
				{PID: 101, UsedMemoryBytes: mb(10), MemoryKnown: true},
				{PID: 200, UsedMemoryBytes: mb(50), MemoryKnown: true},
				{PID: 100, UsedMemoryBytes: mb(20), MemoryKnown: true},
				{PID: 102, UsedMemoryBytes: mb(30), MemoryKnown: true},
			},
			target:    "firefox",
			policy:    PolicyLast,
			want:      ProcessInfo{PID: 102, Name: "firefox", MemoryUsageMB: 30},
			wantFound: true,
		},
		{
			name: "First of several matches",
			workloads: []collector.Workload{
				{PID: 200, UsedMemoryBytes: mb(50), MemoryKnown: true},
				{PID: 101, UsedMemoryBytes: mb(10), MemoryKnown: true},
				{PID: 100, UsedMemoryBytes: mb(20), MemoryKnown: true},
			},
			target:    "firefox",
			policy:    PolicyFirst,
			want:      ProcessInfo{PID: 101, Name: "firefox", MemoryUsageMB: 10},
			wantFound: true,
		},
		{
			name:      "Case sensitive",
			workloads: []collector.Workload{{PID: 300, UsedMemoryBytes: mb(5), MemoryKnown: true}},
			target:    "firefox",
			policy:    PolicyLast,
		},
		{
			name:      "Exited process does not match",
			workloads: []collector.Workload{{PID: 999, UsedMemoryBytes: mb(5), MemoryKnown: true}},
			target:    "firefox",
			policy:    PolicyLast,
		},
		{
			name:      "Target not present",
			workloads: []collector.Workload{{PID: 100, UsedMemoryBytes: mb(100), MemoryKnown: true}},
			target:    "chrome",
			policy:    PolicyLast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := &collector.Snapshot{Name: "RTX 4090", Workloads: tt.workloads}

			got, found := Match(snapshot, table, tt.target, tt.policy)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_EmptySnapshotNeverMatches(t *testing.T) {
	table := processtable.NewTable([]processtable.Record{{PID: 1, Name: ""}, {PID: 2, Name: "init"}})
	snapshot := &collector.Snapshot{}

	for _, target := range []string{"", "init", "firefox"} {
		for _, policy := range []Policy{PolicyLast, PolicyFirst} {
			_, found := Match(snapshot, table, target, policy)
			assert.False(t, found, "target=%q policy=%s", target, policy)
		}
	}
}

func TestAttribute(t *testing.T) {
	table := processtable.NewTable([]processtable.Record{
		{PID: 100, Name: "firefox"},
		{PID: 200, Name: "Xorg"},
	})
	snapshot := &collector.Snapshot{Workloads: []collector.Workload{
		{PID: 200, UsedMemoryBytes: mb(64), MemoryKnown: true},
		{PID: 404, UsedMemoryBytes: mb(8), MemoryKnown: true},
		{PID: 100},
	}}

	assert.Equal(t, []ProcessInfo{
		{PID: 200, Name: "Xorg", MemoryUsageMB: 64},
		{PID: 404, Name: "", MemoryUsageMB: 8},
		{PID: 100, Name: "firefox", MemoryUsageMB: 0},
	}, Attribute(snapshot, table))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("last")
	require.NoError(t, err)
	assert.Equal(t, PolicyLast, p)

	p, err = ParsePolicy("first")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirst, p)

	_, err = ParsePolicy("Last")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid match policy")
}
