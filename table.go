// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ignite

import (
	"context"
	"errors"
	"fmt"
)

// Registration registers one or more handlers with a [Registry].
type Registration func(*Registry) error

// Depends returns a [Registration] of h, which must run after deps.
// If location is empty, it is derived from the caller of Depends.
func Depends(location string, h *Handler, deps ...*Handler) Registration {
	if location == "" && h != nil {
		location = callerLocation(h, 2)
	}
	return func(r *Registry) error {
		return r.Register(location, h, deps...)
	}
}

// Independent returns a [Registration] of h with no dependencies.
// If location is empty, it is derived from the caller of Independent.
func Independent(location string, h *Handler) Registration {
	if location == "" && h != nil {
		location = callerLocation(h, 2)
	}
	return func(r *Registry) error {
		return r.RegisterIndependent(location, h)
	}
}

// Table is an explicit, ordered list of registrations. The order of a
// Table has no effect on the order handlers run in.
type Table []Registration

// Apply invokes every [Registration] once, in table order. With the
// [LogAndReturn] policy every registration is attempted and their errors
// are joined. With [FailFast] the first failing registration panics and
// the rest are never attempted.
func (t Table) Apply(r *Registry) error {
	errs := make([]error, 0, len(t))
	for _, reg := range t {
		if reg == nil {
			continue
		}
		err := reg(r)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// TableApplyError occurs when [Bootstrap] fails to apply its [Table].
type TableApplyError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e TableApplyError) Error() string {
	return fmt.Sprintf("failed to apply registration table: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TableApplyError) Unwrap() error {
	return e.Cause
}

// Bootstrap builds a [Registry] from opts, applies the table and runs
// every handler. It is meant to be called once, early, from main.
//
// If the table can not be applied nothing runs and every registration
// made so far is released. Under [FailFast] that happens before the
// panic propagates.
func Bootstrap(ctx context.Context, table Table, opts ...Option) error {
	return bootstrap(ctx, New(opts...), table)
}

func bootstrap(ctx context.Context, r *Registry, table Table) error {
	applied := false
	defer func() {
		if !applied {
			r.discard()
		}
	}()

	err := table.Apply(r)
	if err != nil {
		return TableApplyError{Cause: err}
	}
	applied = true
	return r.Run(ctx)
}
