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

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

func newOSWatcher(sigs ...os.Signal) (chan os.Signal, func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)
	cleanup := func() {
		signal.Stop(sigChan)
		close(sigChan)
	}
	return sigChan, cleanup
}

// newSignalContext returns a context cancelled on the first of sigs. The
// returned stop function releases the watcher and must be called.
func newSignalContext(parent context.Context, sigs ...os.Signal) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	sigChan, cleanup := newOSWatcher(sigs...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig, ok := <-sigChan:
			if ok {
				slog.Info("Received signal; cancelling report", slog.String("signal", sig.String()))
				cancel()
			}
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		cancel()
		<-done
		cleanup()
	}
}
