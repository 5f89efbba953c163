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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_HasWork(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   bool
	}{
		{name: "Empty", config: Config{}, want: false},
		{name: "Print only", config: Config{PrintInfo: true}, want: false},
		{name: "Target", config: Config{Target: "firefox"}, want: true},
		{name: "Logging", config: Config{Logging: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.HasWork())
		})
	}
}

func TestConfig_NotifyEnabled(t *testing.T) {
	assert.True(t, (&Config{Target: "firefox"}).NotifyEnabled())
	assert.False(t, (&Config{Target: "firefox", DisableNotification: true}).NotifyEnabled())
	assert.False(t, (&Config{Logging: true}).NotifyEnabled())
}
