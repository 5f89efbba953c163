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

// Package collector captures a point-in-time view of one GPU.
package collector

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/gpu-usage/internal/pkg/nvmlprovider"
)

// ErrDeviceUnavailable is returned when the driver cannot be initialized, the
// device cannot be found, or any metric query fails.
var ErrDeviceUnavailable = errors.New("GPU device unavailable")

// Workload is one graphics process active on the device.
type Workload struct {
	PID             uint32
	UsedMemoryBytes uint64
	// MemoryKnown is false when the driver did not report per-process memory.
	MemoryKnown bool
}

// UsedMemoryMB returns the workload memory in MB, or 0 when it is unknown.
func (w Workload) UsedMemoryMB() uint64 {
	if !w.MemoryKnown {
		return 0
	}
	return BytesToMB(w.UsedMemoryBytes)
}

// Snapshot is the state of a single device at capture time. It is not
// modified after Capture returns.
type Snapshot struct {
	DeviceIndex        int
	Name               string
	UtilizationPercent uint32
	MemoryUsedMB       uint64
	MemoryTotalMB      uint64
	TemperatureC       uint32
	// Workloads keeps the order reported by the driver.
	Workloads []Workload
}

// Utilization renders the aggregate utilization, e.g. "55%".
func (s *Snapshot) Utilization() string {
	return formatPercent(s.UtilizationPercent)
}

// Capture queries the device at deviceIndex once. Every failure is reported as
// ErrDeviceUnavailable wrapping the driver error.
func Capture(client nvmlprovider.NVML, deviceIndex int) (*Snapshot, error) {
	status, err := client.GetDeviceStatus(deviceIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	snapshot := &Snapshot{
		DeviceIndex:        deviceIndex,
		Name:               status.Name,
		UtilizationPercent: status.UtilizationPercent,
		MemoryUsedMB:       BytesToMB(status.MemoryUsedBytes),
		MemoryTotalMB:      BytesToMB(status.MemoryTotalBytes),
		TemperatureC:       status.TemperatureC,
		Workloads:          make([]Workload, 0, len(status.GraphicsProcesses)),
	}
	for _, p := range status.GraphicsProcesses {
		snapshot.Workloads = append(snapshot.Workloads, Workload{
			PID:             p.PID,
			UsedMemoryBytes: p.UsedMemoryBytes,
			MemoryKnown:     p.MemoryReported,
		})
	}

	slog.Debug("Captured GPU snapshot",
		slog.Int("device_index", deviceIndex),
		slog.String("name", snapshot.Name),
		slog.String("utilization", snapshot.Utilization()),
		slog.Int("workloads", len(snapshot.Workloads)))

	return snapshot, nil
}
