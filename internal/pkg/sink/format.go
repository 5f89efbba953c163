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

// Package sink renders a snapshot and its matched process to the console,
// the desktop, an append-only log file and a Prometheus textfile.
package sink

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
)

// Capitalize upper-cases the first character and lower-cases the remaining
// ASCII letters. Non-ASCII characters after the first are left as they are.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(s)

	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToUpper(first))
	for i := size; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func usageSegment(name string, memoryMB uint64) string {
	return fmt.Sprintf("%s memory usage: %d MB", name, memoryMB)
}

// workloadLabel is the capitalized process name, or "pid <N>" when the
// process could not be resolved.
func workloadLabel(p matcher.ProcessInfo) string {
	if p.Name == "" {
		return fmt.Sprintf("pid %d", p.PID)
	}
	return Capitalize(p.Name)
}
