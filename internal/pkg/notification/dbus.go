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

package notification

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDestination = "org.freedesktop.Notifications"
	notificationsPath        = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod             = notificationsDestination + ".Notify"

	// defaultExpireTimeout lets the notification server pick the timeout.
	defaultExpireTimeout int32 = -1
)

// DBusNotifier sends alerts to the freedesktop notification server on the
// session bus.
type DBusNotifier struct {
	appName       string
	expireTimeout int32
}

// DBusNotifierOption configures a DBusNotifier.
type DBusNotifierOption func(*DBusNotifier)

// WithExpireTimeout sets the expiry in milliseconds. -1 uses the server
// default, 0 never expires.
func WithExpireTimeout(ms int32) DBusNotifierOption {
	return func(n *DBusNotifier) {
		n.expireTimeout = ms
	}
}

// NewDBusNotifier creates a notifier that identifies itself as appName.
func NewDBusNotifier(appName string, opts ...DBusNotifierOption) *DBusNotifier {
	n := &DBusNotifier{
		appName:       appName,
		expireTimeout: defaultExpireTimeout,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify implements Notifier. A private session-bus connection is opened per
// call and closed before returning.
func (n *DBusNotifier) Notify(summary, body, icon string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("%w: cannot connect to session bus: %w", ErrDelivery, err)
	}
	defer conn.Close()

	call := conn.Object(notificationsDestination, notificationsPath).Call(notifyMethod, 0,
		n.appName,
		uint32(0), // replaces_id
		icon,
		summary,
		body,
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		n.expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, call.Err)
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		slog.Debug("Notification delivered", slog.Uint64("id", uint64(id)))
	}

	return nil
}
