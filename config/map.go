// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"maps"
	"slices"

	"github.com/z5labs/ignite/config/key"
)

// Map is a [Source] of literal values, typically used for defaults
// which later sources override. Nested map[string]any values become
// nested keys; every other value, including slices, is set as is.
type Map map[string]any

// Apply implements the [Source] interface. Keys are applied in sorted
// order so a failing key is reported deterministically.
func (m Map) Apply(store Store) error {
	return m.apply(store, nil)
}

func (m Map) apply(store Store, parent key.Chain) error {
	for _, name := range slices.Sorted(maps.Keys(m)) {
		k := slices.Concat(parent, key.Chain{key.Name(name)})

		var err error
		switch v := m[name].(type) {
		case map[string]any:
			// the store nests later keys inside it, so it must not be the caller's map
			if len(v) == 0 {
				err = store.Set(k, make(map[string]any))
				break
			}
			err = Map(v).apply(store, k)
		default:
			err = store.Set(k, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
