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

package processtable

import (
	"context"
	"log/slog"

	psprocess "github.com/shirou/gopsutil/v3/process"
)

// GopsutilSource lists processes through gopsutil.
type GopsutilSource struct{}

func NewGopsutilSource() *GopsutilSource {
	return &GopsutilSource{}
}

// Processes lists every process whose name is readable. Processes that exit
// during the walk, or whose name cannot be read, are skipped.
func (s *GopsutilSource) Processes(ctx context.Context) ([]Record, error) {
	procs, err := psprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(procs))
	skipped := 0
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, Record{PID: uint32(p.Pid), Name: name})
	}

	if skipped > 0 {
		slog.Debug("Skipped unreadable processes", slog.Int("count", skipped))
	}

	return records, nil
}
