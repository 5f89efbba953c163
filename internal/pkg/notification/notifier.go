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

//go:generate go run -v go.uber.org/mock/mockgen  -destination=../../mocks/pkg/notification/mock_notifier.go -package=notification -copyright_file=../../../hack/header.txt . Notifier

// Package notification delivers desktop alerts.
package notification

import "errors"

// ErrDelivery is returned when an alert could not be shown.
var ErrDelivery = errors.New("notification delivery failed")

// Notifier shows a single desktop alert. Delivery is fire-and-forget; only
// success or failure is reported.
type Notifier interface {
	Notify(summary, body, icon string) error
}
