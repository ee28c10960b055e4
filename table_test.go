// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ignite

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/z5labs/ignite/internal/noop"
	"github.com/z5labs/ignite/internal/try"

	"github.com/stretchr/testify/require"
)

func TestTable_Apply(t *testing.T) {
	t.Run("will attempt every registration", func(t *testing.T) {
		t.Run("even if some of them fail", func(t *testing.T) {
			a := NewHandler("A", nil)
			b := NewHandler("B", nil)

			fooErr := errors.New("foo")
			table := Table{
				func(*Registry) error { return fooErr },
				nil,
				Independent("A", a),
				Independent("A again", a),
				Depends("B", b, a),
			}

			r := quiet(Violations(LogAndReturn))
			err := table.Apply(r)
			require.ErrorIs(t, err, fooErr)

			var derr DuplicateHandlerError
			require.ErrorAs(t, err, &derr)

			_, ok := r.Lookup(b.ID())
			require.True(t, ok)
		})
	})

	t.Run("will capture the location of the table entry", func(t *testing.T) {
		var out bytes.Buffer
		log := slog.New(slog.NewTextHandler(&out, nil))

		table := Table{
			Independent("", NewHandler("Located", nil)),
		}

		r := New(Logger(log))
		require.Nil(t, table.Apply(r))

		_, err := r.Organize(context.Background())
		require.Nil(t, err)
		require.Contains(t, out.String(), "Located from ")
		require.Contains(t, out.String(), "table_test.go:")
	})
}

func TestBootstrap(t *testing.T) {
	t.Run("will run the table in dependency order", func(t *testing.T) {
		var rec recorder
		a := rec.handler("A")
		b := rec.handler("B")
		c := rec.handler("C")

		table := Table{
			Depends("C", c, a, b),
			Depends("B", b, a),
			Independent("A", a),
		}

		err := Bootstrap(context.Background(), table, Logger(noop.Logger()))
		require.Nil(t, err)
		require.Equal(t, []string{"A", "B", "C"}, rec.ran)
	})

	t.Run("will return a TableApplyError", func(t *testing.T) {
		t.Run("if a registration fails", func(t *testing.T) {
			var rec recorder
			a := rec.handler("A")

			table := Table{
				Independent("A", a),
				Independent("A", a),
			}

			err := Bootstrap(
				context.Background(),
				table,
				Logger(noop.Logger()),
				Violations(LogAndReturn),
			)

			var terr TableApplyError
			require.ErrorAs(t, err, &terr)
			require.Empty(t, rec.ran)
		})
	})

	t.Run("will release every registration", func(t *testing.T) {
		t.Run("if a registration panics under FailFast", func(t *testing.T) {
			var rec recorder
			a := rec.handler("A")
			b := rec.handler("B")

			table := Table{
				Independent("A", a),
				Independent("A again", a),
				Depends("B", b, a),
			}

			r := quiet()
			require.Panics(t, func() {
				bootstrap(context.Background(), r, table)
			})

			_, ok := r.Lookup(a.ID())
			require.False(t, ok)
			_, ok = r.Lookup(b.ID())
			require.False(t, ok)
			require.Empty(t, rec.ran)

			err := try.Call(func() error {
				return r.RegisterIndependent("late", NewHandler("late", nil))
			})
			require.ErrorIs(t, err, ErrConsumed)
		})
	})

	t.Run("will return the handler failure", func(t *testing.T) {
		hookErr := errors.New("failed")
		table := Table{
			Independent("A", NewHandler("A", HookFunc(func(ctx context.Context) error {
				return hookErr
			}))),
		}

		err := Bootstrap(
			context.Background(),
			table,
			Logger(noop.Logger()),
			Violations(LogAndReturn),
		)
		require.ErrorIs(t, err, hookErr)

		var rerr RunError
		require.ErrorAs(t, err, &rerr)
	})
}
