// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ignite

import (
	"context"
	"strconv"
	"sync/atomic"
)

// ID uniquely identifies a [Handler] within the process. The zero ID
// is never assigned.
type ID uint64

// String implements the [fmt.Stringer] interface.
func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Hook is the work performed by a [Handler].
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc func(context.Context) error

// Run implements the [Hook] interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Func adapts a plain no argument, no return func into a [Hook].
func Func(f func()) Hook {
	return HookFunc(func(context.Context) error {
		f()
		return nil
	})
}

// Handler is an initialization routine. A *Handler is both what gets
// run and the value other handlers use to name it as a dependency, so
// handlers are typically declared as package level variables:
//
//	var OpenDB = ignite.NewHandler("OpenDB", ignite.Func(openDB))
//
// Handlers must be created with [NewHandler]; a zero Handler is
// rejected at registration.
type Handler struct {
	id   ID
	name string
	hook Hook
}

// NewHandler returns a [Handler] with a freshly assigned [ID].
func NewHandler(name string, hook Hook) *Handler {
	return &Handler{
		id:   nextID(),
		name: name,
		hook: hook,
	}
}

// ID returns the identifier assigned to the handler.
func (h *Handler) ID() ID {
	return h.id
}

// Name returns the name the handler was created with.
func (h *Handler) Name() string {
	if h.name == "" {
		return h.id.String()
	}
	return h.name
}

// valid reports whether h was created by [NewHandler].
func (h *Handler) valid() bool {
	return h != nil && h.id != 0
}
