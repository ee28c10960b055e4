// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ignite runs initialization handlers in dependency order before
// a program's main logic executes.
//
// Handlers are declared once, usually as package level variables, and
// registered together with the handlers they depend on. Registration order
// does not matter; [Registry.Run] computes a valid order and runs every
// handler exactly once:
//
//	var (
//	    LoadConfig = ignite.NewHandler("LoadConfig", ignite.Func(loadConfig))
//	    OpenDB     = ignite.NewHandler("OpenDB", ignite.Func(openDB))
//	)
//
//	var table = ignite.Table{
//	    ignite.Depends("", OpenDB, LoadConfig),
//	    ignite.Independent("", LoadConfig),
//	}
//
//	func main() {
//	    err := ignite.Bootstrap(context.Background(), table)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Ordering
//
// The order is computed in passes. Each pass schedules, in registration
// order, every handler whose dependencies have all been scheduled by
// previous passes. Passes repeat until one schedules nothing. If any
// handler is left over, the dependencies contain a cycle or name a handler
// which was never registered, and an [UnsatisfiableError] is reported
// before any handler runs.
//
// # Violations
//
// Cycles, duplicate registrations and late registrations are violations.
// By default they panic ([FailFast]); with [Violations]([LogAndReturn]) they
// are logged and returned instead.
package ignite
