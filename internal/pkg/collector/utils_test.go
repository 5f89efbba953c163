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

package collector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesToMB(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		want  uint64
	}{
		{
			name:  "Zero",
			value: 0,
			want:  0,
		},
		{
			name:  "One byte",
			value: 1,
			want:  0,
		},
		{
			name:  "Just below one MB",
			value: 1<<20 - 1,
			want:  0,
		},
		{
			name:  "Exactly one MB",
			value: 1 << 20,
			want:  1,
		},
		{
			name:  "100 MB",
			value: 104857600,
			want:  100,
		},
		{
			name:  "Rounds down",
			value: 100<<20 + 1<<19,
			want:  100,
		},
		{
			name:  "24 GB",
			value: 24576 << 20,
			want:  24576,
		},
		{
			name:  "Max uint64",
			value: math.MaxUint64,
			want:  math.MaxUint64 >> 20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BytesToMB(tt.value), "BytesToMB(%d)", tt.value)
		})
	}
}

func Test_formatPercent(t *testing.T) {
	assert.Equal(t, "0%", formatPercent(0))
	assert.Equal(t, "55%", formatPercent(55))
	assert.Equal(t, "100%", formatPercent(100))
}

func TestWorkload_UsedMemoryMB(t *testing.T) {
	assert.Equal(t, uint64(100), Workload{PID: 1, UsedMemoryBytes: 104857600, MemoryKnown: true}.UsedMemoryMB())
	assert.Equal(t, uint64(0), Workload{PID: 1, UsedMemoryBytes: 104857600}.UsedMemoryMB(),
		"unknown usage reports 0 regardless of the raw value")
	assert.Equal(t, uint64(0), Workload{PID: 1, UsedMemoryBytes: 4096, MemoryKnown: true}.UsedMemoryMB())
}
