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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mocknvmlprovider "github.com/NVIDIA/gpu-usage/internal/mocks/pkg/nvmlprovider"
	"github.com/NVIDIA/gpu-usage/internal/pkg/nvmlprovider"
)

func TestCapture(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNVML := mocknvmlprovider.NewMockNVML(ctrl)
	mockNVML.EXPECT().GetDeviceStatus(1).Return(&nvmlprovider.DeviceStatus{
		Index:              1,
		Name:               "RTX 4090",
		UtilizationPercent: 55,
		MemoryUsedBytes:    2048<<20 + 12345,
		MemoryTotalBytes:   24576 << 20,
		TemperatureC:       63,
		GraphicsProcesses: []nvmlprovider.GPUProcessInfo{
			{PID: 300, UsedMemoryBytes: 104857600, MemoryReported: true},
			{PID: 100},
		},
	}, nil)

	snapshot, err := Capture(mockNVML, 1)
	require.NoError(t, err)

	assert.Equal(t, &Snapshot{
		DeviceIndex:        1,
		Name:               "RTX 4090",
		UtilizationPercent: 55,
		MemoryUsedMB:       2048,
		MemoryTotalMB:      24576,
		TemperatureC:       63,
		Workloads: []Workload{
			{PID: 300, UsedMemoryBytes: 104857600, MemoryKnown: true},
			{PID: 100},
		},
	}, snapshot)
	assert.Equal(t, "55%", snapshot.Utilization())
}

func TestCapture_NoWorkloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNVML := mocknvmlprovider.NewMockNVML(ctrl)
	mockNVML.EXPECT().GetDeviceStatus(0).Return(&nvmlprovider.DeviceStatus{Name: "T4"}, nil)

	snapshot, err := Capture(mockNVML, 0)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Workloads)
	assert.Empty(t, snapshot.Workloads)
}

func TestCapture_DeviceUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	driverErr := errors.New("GPU is lost")
	mockNVML := mocknvmlprovider.NewMockNVML(ctrl)
	mockNVML.EXPECT().GetDeviceStatus(0).Return(nil, driverErr)

	snapshot, err := Capture(mockNVML, 0)
	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.ErrorIs(t, err, driverErr)
}
