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

package appconfig

// Config is the per-invocation configuration assembled from flags and
// environment variables.
type Config struct {
	// Target is the process name to report on. Empty means every workload.
	Target              string
	PrintInfo           bool
	DisableNotification bool
	NotificationIcon    string
	Logging             bool
	LogPath             string
	Delimiter           string
	LogTimeFormat       string
	DeviceIndex         int
	MatchPolicy         string
	TextfilePath        string
	LogFormat           string
	Debug               bool
}

// HasWork reports whether the invocation has anything to produce.
func (c *Config) HasWork() bool {
	return c.Target != "" || c.Logging
}

// NotifyEnabled reports whether a desktop alert is sent for the target.
func (c *Config) NotifyEnabled() bool {
	return c.Target != "" && !c.DisableNotification
}
