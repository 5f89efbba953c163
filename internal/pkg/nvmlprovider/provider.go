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

package nvmlprovider

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// usedMemoryNotAvailable is NVML_VALUE_NOT_AVAILABLE as it appears in nvmlProcessInfo_t.usedGpuMemory.
// Drivers report it when per-process accounting is unsupported (e.g. WDDM).
const usedMemoryNotAvailable uint64 = math.MaxUint64

var errNotInitialized = errors.New("NVML library not initialized")

var nvmlInterface NVML

// Initialize sets up the Singleton NVML interface.
func Initialize() error {
	var err error
	nvmlInterface, err = newNVMLProvider()
	if err != nil {
		return err
	}
	return nil
}

// reset clears the current NVML interface instance.
func reset() {
	nvmlInterface = nil
}

// Client retrieves the current NVML interface instance. When Initialize has not
// succeeded an uninitialized provider is returned, whose calls fail.
func Client() NVML {
	if nvmlInterface == nil {
		return &nvmlProvider{}
	}
	return nvmlInterface
}

// SetClient sets the current NVML interface instance to the provided one.
func SetClient(n NVML) {
	nvmlInterface = n
}

// nvmlProvider implements NVML Interface
type nvmlProvider struct {
	initialized bool
}

func newNVMLProvider() (NVML, error) {
	// Check if a NVML client already exists and return it if so.
	if nvmlInterface != nil {
		if p, ok := nvmlInterface.(*nvmlProvider); ok && p.initialized {
			slog.Info("NVML already initialized.")
			return nvmlInterface, nil
		}
	}

	slog.Debug("Attempting to initialize NVML library.")
	ret := nvml.Init()
	if ret != nvml.SUCCESS {
		err := errors.New(nvml.ErrorString(ret))
		slog.Error(fmt.Sprintf("Cannot init NVML library; err: %v", err))
		return &nvmlProvider{initialized: false}, err
	}

	return &nvmlProvider{initialized: true}, nil
}

func (n *nvmlProvider) preCheck() error {
	if !n.initialized {
		return errNotInitialized
	}

	return nil
}

// GetDeviceStatus reads identity, utilization, memory, temperature and the
// graphics workload list of the device at index.
func (n *nvmlProvider) GetDeviceStatus(index int) (*DeviceStatus, error) {
	if err := n.preCheck(); err != nil {
		return nil, err
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get device count: %s", nvml.ErrorString(ret))
	}
	if index < 0 || index >= count {
		return nil, fmt.Errorf("device index %d out of range; %d device(s) present", index, count)
	}

	device, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get handle for device %d: %s", index, nvml.ErrorString(ret))
	}

	status, err := readDeviceStatus(device)
	if err != nil {
		return nil, fmt.Errorf("device %d: %w", index, err)
	}
	status.Index = index

	return status, nil
}

// readDeviceStatus performs the individual metric queries. Any failed query
// fails the whole read; partial snapshots are never returned.
func readDeviceStatus(device nvml.Device) (*DeviceStatus, error) {
	name, ret := device.GetName()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get name: %s", nvml.ErrorString(ret))
	}

	utilization, ret := device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get utilization rates: %s", nvml.ErrorString(ret))
	}

	memory, ret := device.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get memory info: %s", nvml.ErrorString(ret))
	}

	temperature, ret := device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get temperature: %s", nvml.ErrorString(ret))
	}

	graphicsProcesses, ret := device.GetGraphicsRunningProcesses()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to get graphics processes: %s", nvml.ErrorString(ret))
	}

	return &DeviceStatus{
		Name:               name,
		UtilizationPercent: utilization.Gpu,
		MemoryUsedBytes:    memory.Used,
		MemoryTotalBytes:   memory.Total,
		TemperatureC:       temperature,
		GraphicsProcesses:  toGPUProcessInfo(graphicsProcesses),
	}, nil
}

func toGPUProcessInfo(processes []nvml.ProcessInfo) []GPUProcessInfo {
	out := make([]GPUProcessInfo, 0, len(processes))
	for _, proc := range processes {
		info := GPUProcessInfo{PID: proc.Pid}
		if proc.UsedGpuMemory != usedMemoryNotAvailable {
			info.UsedMemoryBytes = proc.UsedGpuMemory
			info.MemoryReported = true
		}
		out = append(out, info)
	}
	return out
}

// Cleanup performs cleanup operations for the NVML provider
func (n *nvmlProvider) Cleanup() {
	if err := n.preCheck(); err != nil {
		return
	}
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		slog.Warn("Failed to shut down NVML", slog.String("error", nvml.ErrorString(ret)))
	}
	n.initialized = false
	reset()
}
