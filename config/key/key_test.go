// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain_Key(t *testing.T) {
	t.Run("will join nested keys with a dot", func(t *testing.T) {
		c := Chain{Name("ignite"), Name("violations")}
		if !assert.Equal(t, "ignite.violations", c.Key()) {
			return
		}
	})
}

func TestSplit(t *testing.T) {
	t.Run("will drop empty segments", func(t *testing.T) {
		c := Split("ignite__log_level", "_")
		if !assert.Equal(t, Chain{Name("ignite"), Name("log"), Name("level")}, c) {
			return
		}
	})
}
