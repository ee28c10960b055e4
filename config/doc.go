// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads layered configuration for bootstrapping a program.
//
// Configuration is assembled from one or more [Source]s, each applying its
// key value pairs onto a shared [Store]. Subsequent sources override values
// set by previous ones, so literal defaults can be overridden by a YAML or
// JSON file, which environment variables then override:
//
//	m, err := config.Read(
//	    ignite.Defaults(),
//	    config.FromFile(os.DirFS("."), "config.yaml"),
//	    config.FromEnv(config.Prefix("IGNITE__")),
//	)
//	if err != nil {
//	    return err
//	}
//
//	var cfg struct {
//	    Ignite ignite.Config `config:"ignite"`
//	}
//	err = m.Unmarshal(&cfg)
//
// Struct fields are matched using the `config` tag. Values are coerced into
// fields implementing [encoding.TextUnmarshaler] and into [time.Duration].
package config
