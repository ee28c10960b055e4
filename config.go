// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ignite

import (
	"log/slog"

	"github.com/z5labs/ignite/config"
)

// Config holds the [Registry] settings which can be read with the
// config package, typically nested under an "ignite" key:
//
//	ignite:
//	  violations: log
//	  logLevel: debug
type Config struct {
	Violations Policy      `config:"violations"`
	LogLevel   *slog.Level `config:"logLevel"`
}

// FromConfig applies cfg to a [Registry]. A configured log level only
// takes effect when no [Logger] option is given, in which case the
// order trace and violations are written as text to stderr.
func FromConfig(cfg Config) Option {
	return func(r *Registry) {
		r.policy = cfg.Violations
		if cfg.LogLevel != nil {
			lvl := *cfg.LogLevel
			r.logLevel = &lvl
		}
	}
}

// Defaults returns a [config.Source] holding the default [Config] under
// the "ignite" key. It is meant to be read before any other source.
func Defaults() config.Map {
	return config.Map{
		"ignite": map[string]any{
			"violations": FailFast.String(),
			"logLevel":   slog.LevelInfo.String(),
		},
	}
}
