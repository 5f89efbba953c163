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

// Package processtable snapshots the OS process table and resolves process
// ids to display names against that snapshot.
package processtable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrEnumerate is returned when the process table cannot be listed.
var ErrEnumerate = errors.New("cannot enumerate processes")

// Record is a single entry of the process table.
type Record struct {
	PID  uint32
	Name string
}

// Source enumerates the running processes.
type Source interface {
	Processes(ctx context.Context) ([]Record, error)
}

// Records is a fixed Source.
type Records []Record

func (r Records) Processes(context.Context) ([]Record, error) {
	return r, nil
}

// Table is a pid-indexed snapshot of the process table. It is captured once
// per invocation and shared by every lookup.
type Table struct {
	names map[uint32]string
}

// NewTable indexes records by pid. A later record for the same pid wins.
func NewTable(records []Record) *Table {
	names := make(map[uint32]string, len(records))
	for _, r := range records {
		names[r.PID] = r.Name
	}
	return &Table{names: names}
}

// Capture enumerates src once and indexes the result.
func Capture(ctx context.Context, src Source) (*Table, error) {
	records, err := src.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}

	slog.Debug("Captured process table", slog.Int("processes", len(records)))

	return NewTable(records), nil
}

// Resolve returns the display name of pid, or "" when the process is not in
// the snapshot. A workload may exit between the GPU query and the snapshot.
func (t *Table) Resolve(pid uint32) string {
	return t.names[pid]
}

// Len returns the number of processes in the snapshot.
func (t *Table) Len() int {
	return len(t.names)
}
