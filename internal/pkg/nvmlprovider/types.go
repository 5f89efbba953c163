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

//go:generate go run -v go.uber.org/mock/mockgen  -destination=../../mocks/pkg/nvmlprovider/mock_client.go -package=nvmlprovider -copyright_file=../../../hack/header.txt . NVML

package nvmlprovider

// GPUProcessInfo is one graphics workload as reported by the driver.
type GPUProcessInfo struct {
	PID uint32
	// UsedMemoryBytes is only meaningful when MemoryReported is true.
	UsedMemoryBytes uint64
	MemoryReported  bool
}

// DeviceStatus holds the raw values read from a single device in one pass.
type DeviceStatus struct {
	Index              int
	Name               string
	UtilizationPercent uint32
	MemoryUsedBytes    uint64
	MemoryTotalBytes   uint64
	TemperatureC       uint32
	GraphicsProcesses  []GPUProcessInfo
}

type NVML interface {
	GetDeviceStatus(index int) (*DeviceStatus, error)
	Cleanup()
}
