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
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"syscall"

	"github.com/lestrrat-go/strftime"
	"github.com/urfave/cli/v2"

	"github.com/NVIDIA/gpu-usage/internal/pkg/appconfig"
	"github.com/NVIDIA/gpu-usage/internal/pkg/collector"
	"github.com/NVIDIA/gpu-usage/internal/pkg/logging"
	"github.com/NVIDIA/gpu-usage/internal/pkg/matcher"
	"github.com/NVIDIA/gpu-usage/internal/pkg/nvmlprovider"
	"github.com/NVIDIA/gpu-usage/internal/pkg/report"
	"github.com/NVIDIA/gpu-usage/internal/pkg/sink"
)

const (
	CLIName                = "name"
	CLIPrintInfo           = "print-info"
	CLIDisableNotification = "disable-notification"
	CLINotificationIcon    = "notification-icon"
	CLILogging             = "logging"
	CLILogPath             = "log-path"
	CLIDelimiter           = "delimiter"
	CLILogTimeFormat       = "log-time-format"
	CLIDeviceIndex         = "device-index"
	CLIMatchPolicy         = "match-policy"
	CLITextfile            = "textfile"
	CLIDebugMode           = "debug"
	CLILogFormat           = "log-format"
)

// Process exit codes.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitUsage           = 2
	ExitProcessNotFound = 3
	ExitLogWrite        = 4
)

// ErrUsage marks invalid flags or flag values.
var ErrUsage = errors.New("invalid usage")

func NewApp(buildVersion ...string) *cli.App {
	c := cli.NewApp()
	c.Name = "gpu-usage"
	c.Usage = "Reports the GPU usage of a process"
	c.UsageText = "gpu-usage [--name NAME] [--print-info] [--logging] [options]"
	if len(buildVersion) == 0 {
		buildVersion = append(buildVersion, "")
	}
	c.Version = buildVersion[0]

	c.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    CLIName,
			Aliases: []string{"n"},
			Value:   "",
			Usage:   "Name of the process to report on. Matching is exact and case-sensitive.",
			EnvVars: []string{"GPU_USAGE_NAME"},
		},
		&cli.BoolFlag{
			Name:    CLIPrintInfo,
			Aliases: []string{"p"},
			Value:   false,
			Usage:   "Print the report to standard output",
			EnvVars: []string{"GPU_USAGE_PRINT_INFO"},
		},
		&cli.BoolFlag{
			Name:    CLIDisableNotification,
			Aliases: []string{"d"},
			Value:   false,
			Usage:   "Do not show a desktop notification for the process",
			EnvVars: []string{"GPU_USAGE_DISABLE_NOTIFICATION"},
		},
		&cli.StringFlag{
			Name:    CLINotificationIcon,
			Value:   sink.DefaultNotificationIcon,
			Usage:   "Freedesktop icon name of the desktop notification",
			EnvVars: []string{"GPU_USAGE_NOTIFICATION_ICON"},
		},
		&cli.BoolFlag{
			Name:    CLILogging,
			Aliases: []string{"l"},
			Value:   false,
			Usage:   "Append one line to the usage log. When no process name is given, every GPU process is logged.",
			EnvVars: []string{"GPU_USAGE_LOGGING"},
		},
		&cli.StringFlag{
			Name:    CLILogPath,
			Aliases: []string{"L"},
			Value:   sink.DefaultLogPath,
			Usage:   "Path to the usage log. The file is created when missing and never truncated.",
			EnvVars: []string{"GPU_USAGE_LOG_PATH"},
		},
		&cli.StringFlag{
			Name:    CLIDelimiter,
			Aliases: []string{"D"},
			Value:   sink.DefaultDelimiter,
			Usage:   "Separator between the fields of a usage log line",
			EnvVars: []string{"GPU_USAGE_DELIMITER"},
		},
		&cli.StringFlag{
			Name:    CLILogTimeFormat,
			Value:   sink.DefaultTimeFormat,
			Usage:   "strftime layout of the usage log timestamp. Timestamps are in UTC.",
			EnvVars: []string{"GPU_USAGE_LOG_TIME_FORMAT"},
		},
		&cli.IntFlag{
			Name:    CLIDeviceIndex,
			Aliases: []string{"i"},
			Value:   0,
			Usage:   "Index of the GPU to query",
			EnvVars: []string{"GPU_USAGE_DEVICE_INDEX"},
		},
		&cli.StringFlag{
			Name:  CLIMatchPolicy,
			Value: string(matcher.PolicyLast),
			Usage: fmt.Sprintf("Process picked when several GPU processes have the same name. Possible values: '%s', '%s'",
				matcher.PolicyLast, matcher.PolicyFirst),
			EnvVars: []string{"GPU_USAGE_MATCH_POLICY"},
		},
		&cli.StringFlag{
			Name:    CLITextfile,
			Value:   "",
			Usage:   "Also write the report as Prometheus gauges to this file, for the node-exporter textfile collector",
			EnvVars: []string{"GPU_USAGE_TEXTFILE"},
		},
		&cli.BoolFlag{
			Name:    CLIDebugMode,
			Value:   false,
			Usage:   "Enable debug output",
			EnvVars: []string{"GPU_USAGE_DEBUG"},
		},
		&cli.StringFlag{
			Name:    CLILogFormat,
			Value:   "text",
			Usage:   "Specify the log output format. Possible values: text, json",
			EnvVars: []string{"GPU_USAGE_LOG_FORMAT"},
		},
	}

	c.OnUsageError = func(_ *cli.Context, err error, _ bool) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	c.Action = action

	return c
}

func action(c *cli.Context) (err error) {
	// The purpose of this function is to capture any panic that may occur
	// during the report and return an error.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Encountered a failure.", slog.String(logging.StackTrace, string(debug.Stack())))
			err = fmt.Errorf("encountered a failure; err: %v", r)
		}
	}()
	return startReport(c)
}

func configureLogger(c *cli.Context) error {
	logFormat := c.String(CLILogFormat)
	logDebug := c.Bool(CLIDebugMode)
	var opts slog.HandlerOptions
	if logDebug {
		opts.Level = slog.LevelDebug
		defer slog.Debug("Debug output is enabled")
	}
	switch logFormat {
	case "text":
		logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &opts))
		slog.SetDefault(logger)
	case "json":
		logging.SetupGlobalLogger(c.App.ErrWriter, &opts)
	default:
		return fmt.Errorf("%w: invalid %s parameter values: %s", ErrUsage, CLILogFormat, logFormat)
	}
	return nil
}

func startReport(c *cli.Context) error {
	if err := configureLogger(c); err != nil {
		return err
	}

	config, err := contextToConfig(c)
	if err != nil {
		return err
	}

	if !config.HasWork() {
		_ = cli.ShowAppHelp(c)
		return report.ErrNothingToDo
	}

	ctx, stop := newSignalContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Debug("Initializing NVML")
	if err := nvmlprovider.Initialize(); err != nil {
		return fmt.Errorf("%w: %w", collector.ErrDeviceUnavailable, err)
	}
	defer nvmlprovider.Client().Cleanup()

	return runReport(ctx, config)
}

func runReport(ctx context.Context, config *appconfig.Config, opts ...report.Option) error {
	result, err := report.NewReporter(config, opts...).Run(ctx)
	if err != nil {
		return err
	}

	attrs := []any{
		slog.String("device", result.Snapshot.Name),
		slog.Int("workloads", len(result.Workloads)),
	}
	if result.Target != nil {
		attrs = append(attrs,
			slog.String("process", result.Target.Name),
			slog.Uint64("memory_usage_mb", result.Target.MemoryUsageMB))
	}
	slog.Debug("Report complete", attrs...)

	return nil
}

func contextToConfig(c *cli.Context) (*appconfig.Config, error) {
	deviceIndex := c.Int(CLIDeviceIndex)
	if deviceIndex < 0 {
		return nil, fmt.Errorf("%w: invalid %s parameter value: %d", ErrUsage, CLIDeviceIndex, deviceIndex)
	}

	policy, err := matcher.ParsePolicy(c.String(CLIMatchPolicy))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	timeFormat := c.String(CLILogTimeFormat)
	if _, err := strftime.New(timeFormat); err != nil {
		return nil, fmt.Errorf("%w: invalid %s parameter value %q: %w", ErrUsage, CLILogTimeFormat, timeFormat, err)
	}

	return &appconfig.Config{
		Target:              c.String(CLIName),
		PrintInfo:           c.Bool(CLIPrintInfo),
		DisableNotification: c.Bool(CLIDisableNotification),
		NotificationIcon:    c.String(CLINotificationIcon),
		Logging:             c.Bool(CLILogging),
		LogPath:             c.String(CLILogPath),
		Delimiter:           c.String(CLIDelimiter),
		LogTimeFormat:       timeFormat,
		DeviceIndex:         deviceIndex,
		MatchPolicy:         string(policy),
		TextfilePath:        c.String(CLITextfile),
		LogFormat:           c.String(CLILogFormat),
		Debug:               c.Bool(CLIDebugMode),
	}, nil
}

// ExitCode maps an error returned by the app to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage), errors.Is(err, report.ErrNothingToDo):
		return ExitUsage
	case errors.Is(err, report.ErrProcessNotFound):
		return ExitProcessNotFound
	case errors.Is(err, sink.ErrLogWrite):
		return ExitLogWrite
	default:
		return ExitFailure
	}
}
