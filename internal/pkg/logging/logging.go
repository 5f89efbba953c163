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

package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// StackTrace is the attribute key carrying a recovered panic's stack.
const StackTrace = "stacktrace"

// SetupGlobalLogger installs a JSON logger writing to w as the slog default.
func SetupGlobalLogger(w io.Writer, opts *slog.HandlerOptions) {
	slog.SetDefault(slog.New(NewJSONHandler(w, opts)))
}

// NewJSONHandler returns a JSON handler that renders fmt.Stringer values
// through String, so that types without exported fields do not encode as {}.
func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	var o slog.HandlerOptions
	if opts != nil {
		o = *opts
	}

	next := o.ReplaceAttr
	o.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Value.Kind() == slog.KindAny {
			switch v := a.Value.Any().(type) {
			case error:
				a.Value = slog.StringValue(v.Error())
			case fmt.Stringer:
				a.Value = slog.StringValue(v.String())
			}
		}
		if next != nil {
			return next(groups, a)
		}
		return a
	}

	return slog.NewJSONHandler(w, &o)
}
