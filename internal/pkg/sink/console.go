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
	"fmt"
	"io"

	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
)

// ConsolePrinter writes a human-readable report.
type ConsolePrinter struct {
	w io.Writer
}

func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	return &ConsolePrinter{w: w}
}

// Print writes the device lines followed by the target process line when
// target is non-nil, or one line per workload otherwise.
func (p *ConsolePrinter) Print(snapshot *collector.Snapshot, target *matcher.ProcessInfo, workloads []matcher.ProcessInfo) error {
	_, err := fmt.Fprintf(p.w, "Name: %s\nTotal utilization: %s\nMemory usage: %d/%d MB\nTemperature: %d°C\n",
		snapshot.Name,
		snapshot.Utilization(),
		snapshot.MemoryUsedMB,
		snapshot.MemoryTotalMB,
		snapshot.TemperatureC)
	if err != nil {
		return err
	}

	if target != nil {
		_, err = fmt.Fprintln(p.w, usageSegment(target.Name, target.MemoryUsageMB))
		return err
	}

	for _, w := range workloads {
		if _, err = fmt.Fprintln(p.w, usageSegment(workloadLabel(w), w.MemoryUsageMB)); err != nil {
			return err
		}
	}
	return nil
}
