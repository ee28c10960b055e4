// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command hello_world rewrites a shared greeting through three handlers
// registered in reverse dependency order.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/z5labs/ignite"
	"github.com/z5labs/ignite/config"
	"github.com/z5labs/ignite/internal/otelslog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config starts from the defaults, is read from the --config yaml or
// json file and is overridden by IGNITE__* environment variables.
type Config struct {
	ServiceName string        `config:"serviceName"`
	Ignite      ignite.Config `config:"ignite"`
}

var state = "Hello world"

func rewrite(next string) ignite.Hook {
	return ignite.Func(func() {
		state = next
	})
}

var (
	sayHi      = ignite.NewHandler("sayHi", rewrite("Hi mom!"))
	sayAgain   = ignite.NewHandler("sayAgain", rewrite("Hello again"))
	sayGoodbye = ignite.NewHandler("sayGoodbye", rewrite("Sad guy!"))
)

// Registration order is the reverse of the run order.
var table = ignite.Table{
	ignite.Depends("", sayGoodbye, sayHi, sayAgain),
	ignite.Depends("", sayAgain, sayHi),
	ignite.Independent("", sayHi),
}

var errUnexpectedState = errors.New("unexpected final state")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := buildCmd().ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	var (
		configPath string
		traceRun   bool
		cfg        Config
	)
	var tp trace.TracerProvider = noop.NewTracerProvider()
	shutdown := func(context.Context) error { return nil }

	cmd := &cobra.Command{
		Use:          "hello_world",
		Short:        "Run the greeting handlers in dependency order",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			srcs := []config.Source{
				ignite.Defaults(),
				config.Map{"serviceName": "hello_world"},
			}
			if configPath != "" {
				dir, name := filepath.Split(configPath)
				if dir == "" {
					dir = "."
				}
				srcs = append(srcs, config.FromFile(os.DirFS(dir), name))
			}
			srcs = append(srcs, config.FromEnv(config.Prefix("IGNITE__")))

			m, err := config.Read(srcs...)
			if err != nil {
				return err
			}
			err = m.Unmarshal(&cfg)
			if err != nil {
				return err
			}
			if !traceRun {
				return nil
			}

			exp, err := stdouttrace.New(
				stdouttrace.WithWriter(cmd.ErrOrStderr()),
				stdouttrace.WithPrettyPrint(),
			)
			if err != nil {
				return err
			}
			stp := sdktrace.NewTracerProvider(
				sdktrace.WithSyncer(exp),
				sdktrace.WithResource(resource.NewSchemaless(
					semconv.ServiceName(cfg.ServiceName),
				)),
			)
			tp = stp
			shutdown = stp.Shutdown
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var lvl slog.Leveler = slog.LevelInfo
			if cfg.Ignite.LogLevel != nil {
				lvl = cfg.Ignite.LogLevel
			}
			log := otelslog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: lvl,
			}))

			err := ignite.Bootstrap(
				cmd.Context(),
				table,
				ignite.FromConfig(cfg.Ignite),
				ignite.Logger(log),
				ignite.TracerProvider(tp),
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), state)
			if state != "Sad guy!" {
				return errUnexpectedState
			}
			return nil
		},
		PostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdown(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a yaml or json config file")
	cmd.Flags().BoolVar(&traceRun, "trace", false, "export spans to stderr")
	return cmd
}
