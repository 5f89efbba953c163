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

	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
	"github.com/NVIDIA/gpu-usage/internal/pkg/notification"
)

const (
	NotificationSummary     = "GPU Usage"
	DefaultNotificationIcon = "dialog-information"
)

// NotificationBody renders e.g. "Firefox is utilizing 100 MB of memory".
func NotificationBody(p matcher.ProcessInfo) string {
	return fmt.Sprintf("%s is utilizing %d MB of memory", Capitalize(p.Name), p.MemoryUsageMB)
}

// Notify sends the alert for the matched process. The returned error wraps
// notification.ErrDelivery.
func Notify(n notification.Notifier, p matcher.ProcessInfo, icon string) error {
	if icon == "" {
		icon = DefaultNotificationIcon
	}
	return n.Notify(NotificationSummary, NotificationBody(p), icon)
}
