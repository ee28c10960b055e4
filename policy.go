// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ignite

import (
	"fmt"
	"strings"
)

// Policy decides what happens when a [Registry] detects a violation,
// such as a dependency cycle or a duplicate registration. Violations
// are always checked; the policy only controls how they surface.
type Policy int

const (
	// FailFast panics with the violation. Deferred teardown still runs.
	FailFast Policy = iota

	// LogAndReturn logs the violation at error level and returns it.
	LogAndReturn
)

// String implements the [fmt.Stringer] interface.
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail"
	case LogAndReturn:
		return "log"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// UnknownPolicyError occurs when unmarshalling an unrecognized [Policy].
type UnknownPolicyError struct {
	Value string
}

// Error implements the [builtin.error] interface.
func (e UnknownPolicyError) Error() string {
	return fmt.Sprintf("unknown violation policy: %q", e.Value)
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// It accepts "fail" and "log", ignoring case.
func (p *Policy) UnmarshalText(b []byte) error {
	switch s := strings.ToLower(strings.TrimSpace(string(b))); s {
	case "fail", "":
		*p = FailFast
	case "log":
		*p = LogAndReturn
	default:
		return UnknownPolicyError{Value: s}
	}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (p Policy) MarshalText() ([]byte, error) {
	switch p {
	case FailFast, LogAndReturn:
		return []byte(p.String()), nil
	default:
		return nil, UnknownPolicyError{Value: p.String()}
	}
}
