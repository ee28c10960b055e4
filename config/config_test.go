// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/z5labs/ignite/config/key"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

func (l *level) UnmarshalText(b []byte) error {
	switch s := string(b); s {
	case "low", "high":
		*l = level(s)
		return nil
	default:
		return errors.New("unknown level")
	}
}

type testConfig struct {
	App struct {
		Name     string        `config:"name"`
		Level    level         `config:"level"`
		LogLevel slog.Level    `config:"logLevel"`
		Timeout  time.Duration `config:"timeout"`
		Verbose  bool          `config:"verbose"`
	} `config:"app"`
}

func TestRead(t *testing.T) {
	t.Run("will let later sources override earlier ones", func(t *testing.T) {
		m, err := Read(
			FromReader(strings.NewReader("app:\n  name: yaml\n  level: low\n"), YAML),
			Map{"app": map[string]any{"name": "map"}},
		)
		require.Nil(t, err)

		var cfg testConfig
		err = m.Unmarshal(&cfg)
		require.Nil(t, err)
		require.Equal(t, "map", cfg.App.Name)
		require.Equal(t, level("low"), cfg.App.Level)
	})

	t.Run("will return the error of a failing source", func(t *testing.T) {
		srcErr := errors.New("source failed")

		_, err := Read(SourceFunc(func(Store) error {
			return srcErr
		}))
		require.ErrorIs(t, err, srcErr)
	})

	t.Run("will return a DecodeError", func(t *testing.T) {
		t.Run("if the yaml can not be parsed", func(t *testing.T) {
			_, err := Read(FromReader(strings.NewReader("app: ["), YAML))

			var derr DecodeError
			require.ErrorAs(t, err, &derr)
			require.Equal(t, YAML, derr.Format)
		})

		t.Run("if the json can not be parsed", func(t *testing.T) {
			_, err := Read(FromReader(strings.NewReader("{"), JSON))

			var derr DecodeError
			require.ErrorAs(t, err, &derr)
			require.Equal(t, JSON, derr.Format)
		})
	})
}

func TestManager_Unmarshal(t *testing.T) {
	t.Run("will coerce values", func(t *testing.T) {
		t.Run("into text unmarshalers and durations", func(t *testing.T) {
			m, err := Read(FromReader(strings.NewReader(`{"app":{"level":"high","logLevel":"debug","timeout":"5s"}}`), JSON))
			require.Nil(t, err)

			var cfg testConfig
			err = m.Unmarshal(&cfg)
			require.Nil(t, err)
			require.Equal(t, level("high"), cfg.App.Level)
			require.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
			require.Equal(t, 5*time.Second, cfg.App.Timeout)
		})

		t.Run("from environment variable strings", func(t *testing.T) {
			env := FromEnv(
				Prefix("APP__"),
				Environ(func() []string {
					return []string{
						"APP__VERBOSE=true",
						"APP__NAME=env",
						"OTHER=ignored",
					}
				}),
			)

			m, err := Read(env)
			require.Nil(t, err)

			var cfg testConfig
			err = m.Unmarshal(&cfg)
			require.Nil(t, err)
			require.True(t, cfg.App.Verbose)
			require.Equal(t, "env", cfg.App.Name)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a text unmarshaler rejects the value", func(t *testing.T) {
			m, err := Read(Map{"app": map[string]any{"level": "medium"}})
			require.Nil(t, err)

			var cfg testConfig
			err = m.Unmarshal(&cfg)
			require.ErrorContains(t, err, "unknown level")
		})
	})
}

func TestStore_Set(t *testing.T) {
	t.Run("will return an EmptyKeyChainError", func(t *testing.T) {
		store := make(inMemoryStore)

		err := store.Set(key.Chain{}, 1)

		var eerr EmptyKeyChainError
		assert.ErrorAs(t, err, &eerr)
	})

	t.Run("will return an UnexpectedKeyValueTypeError", func(t *testing.T) {
		t.Run("if a key is nested under a scalar", func(t *testing.T) {
			store := make(inMemoryStore)
			err := store.Set(key.Name("app"), "scalar")
			require.Nil(t, err)

			err = store.Set(key.Chain{key.Name("app"), key.Name("name")}, "x")

			var uerr UnexpectedKeyValueTypeError
			require.ErrorAs(t, err, &uerr)
			require.Equal(t, "app", uerr.Key)
		})
	})
}
