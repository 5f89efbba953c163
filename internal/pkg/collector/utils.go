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

import "strconv"

const bytesPerMB = 1 << 20

// BytesToMB converts a byte count to whole MB, rounding down.
func BytesToMB(b uint64) uint64 {
	return b / bytesPerMB
}

// formatPercent renders a utilization value the way it appears in reports, e.g. "55%".
func formatPercent(v uint32) string {
	return strconv.FormatUint(uint64(v), 10) + "%"
}
