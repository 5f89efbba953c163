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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
)

const metricPrefix = "gpu_usage_"

// ErrTextfileWrite is returned when the textfile cannot be replaced.
var ErrTextfileWrite = errors.New("cannot write textfile")

// TextfileWriter exposes the snapshot as gauges in the Prometheus text format,
// suitable for the node-exporter textfile collector. Each write replaces the
// file atomically.
type TextfileWriter struct {
	path string
}

func NewTextfileWriter(path string) *TextfileWriter {
	return &TextfileWriter{path: path}
}

func gauge(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(metricPrefix + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

func gaugeValue(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}

// MetricFamilies converts the snapshot and its attributed workloads.
func MetricFamilies(snapshot *collector.Snapshot, workloads []matcher.ProcessInfo) []*dto.MetricFamily {
	device := label("device", strconv.Itoa(snapshot.DeviceIndex))
	modelName := label("modelName", snapshot.Name)

	families := []*dto.MetricFamily{
		gauge("utilization_percent", "GPU utilization (in %).",
			gaugeValue(float64(snapshot.UtilizationPercent), device, modelName)),
		gauge("memory_used_megabytes", "Framebuffer memory used (in MB).",
			gaugeValue(float64(snapshot.MemoryUsedMB), device, modelName)),
		gauge("memory_total_megabytes", "Framebuffer memory total (in MB).",
			gaugeValue(float64(snapshot.MemoryTotalMB), device, modelName)),
		gauge("temperature_celsius", "GPU temperature (in C).",
			gaugeValue(float64(snapshot.TemperatureC), device, modelName)),
	}

	if len(workloads) > 0 {
		metrics := make([]*dto.Metric, 0, len(workloads))
		for _, w := range workloads {
			metrics = append(metrics, gaugeValue(float64(w.MemoryUsageMB),
				device,
				label("pid", strconv.FormatUint(uint64(w.PID), 10)),
				label("process_name", w.Name)))
		}
		families = append(families,
			gauge("process_memory_used_megabytes", "Memory used by a graphics process (in MB).", metrics...))
	}

	return families
}

// Write replaces the textfile with the current snapshot.
func (tw *TextfileWriter) Write(snapshot *collector.Snapshot, workloads []matcher.ProcessInfo) error {
	dir := filepath.Dir(tw.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(tw.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTextfileWrite, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	for _, mf := range MetricFamilies(snapshot, workloads) {
		if _, err := expfmt.MetricFamilyToText(tmp, mf); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("%w: %w", ErrTextfileWrite, err)
		}
	}

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrTextfileWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrTextfileWrite, err)
	}
	if err := os.Rename(tmpName, tw.path); err != nil {
		return fmt.Errorf("%w: %w", ErrTextfileWrite, err)
	}

	slog.Debug("Wrote textfile metrics", slog.String("path", tw.path))

	return nil
}
