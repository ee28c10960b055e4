// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"strings"

	"github.com/z5labs/ignite/config/key"
)

// EnvOption configures an [Env] source.
type EnvOption func(*Env)

// Prefix limits an [Env] source to variables starting with p.
// The prefix is kept as part of the key.
func Prefix(p string) EnvOption {
	return func(e *Env) {
		e.prefix = p
	}
}

// Separator sets the string which splits a variable name into
// nested keys. It defaults to "__".
func Separator(sep string) EnvOption {
	return func(e *Env) {
		e.sep = sep
	}
}

// Environ overrides where the variables are read from.
func Environ(f func() []string) EnvOption {
	return func(e *Env) {
		e.environ = f
	}
}

// Env represents a Source where its underlying values
// are extracted from environment variables.
//
// Variable names are lower cased and split on the separator,
// so IGNITE__VIOLATIONS=log sets the key ignite.violations.
type Env struct {
	environ func() []string
	prefix  string
	sep     string
}

// FromEnv returns a Source which will apply its config
// from the environment variables available to the
// current process.
func FromEnv(opts ...EnvOption) Env {
	e := Env{
		environ: os.Environ,
		sep:     "__",
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || !strings.HasPrefix(k, src.prefix) {
			continue
		}

		chain := key.Split(strings.ToLower(k), src.sep)
		if len(chain) == 0 {
			continue
		}
		err := store.Set(chain, v)
		if err != nil {
			return err
		}
	}
	return nil
}
