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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mocknotification "github.com/NVIDIA/gpu-usage/internal/mocks/pkg/notification"
	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
	"github.com/NVIDIA/gpu-usage/internal/pkg/notification"
)

func TestNotificationBody(t *testing.T) {
	assert.Equal(t, "Firefox is utilizing 100 MB of memory",
		NotificationBody(matcher.ProcessInfo{PID: 100, Name: "firefox", MemoryUsageMB: 100}))
}

func TestNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocknotification.NewMockNotifier(ctrl)

	n.EXPECT().
		Notify("GPU Usage", "Chrome is utilizing 300 MB of memory", "video-display").
		Return(nil)

	err := Notify(n, matcher.ProcessInfo{PID: 200, Name: "chrome", MemoryUsageMB: 300}, "video-display")
	require.NoError(t, err)
}

func TestNotify_DefaultIcon(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocknotification.NewMockNotifier(ctrl)

	n.EXPECT().
		Notify(NotificationSummary, gomock.Any(), DefaultNotificationIcon).
		Return(nil)

	require.NoError(t, Notify(n, matcher.ProcessInfo{Name: "firefox"}, ""))
}

func TestNotify_DeliveryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocknotification.NewMockNotifier(ctrl)

	n.EXPECT().
		Notify(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: %w", notification.ErrDelivery, errors.New("no session bus")))

	err := Notify(n, matcher.ProcessInfo{Name: "firefox"}, "")
	assert.ErrorIs(t, err, notification.ErrDelivery)
}
