// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package buffer

import (
	"errors"
	"fmt"
)

// Buffer is a type-erased, resizable byte region which tracks whether
// it owns its backing storage.
//
// The zero value is an empty buffer ready to use.
type Buffer struct {
	data  []byte
	owned bool
}

// New returns an empty buffer which owns its (empty) storage.
func New() *Buffer {
	return &Buffer{owned: true}
}

// SizeError occurs when a negative size is requested.
type SizeError struct {
	Size int
}

// Error implements the [builtin.error] interface.
func (e SizeError) Error() string {
	return fmt.Sprintf("buffer: invalid size: %d", e.Size)
}

// Allocate returns a buffer owning exactly size bytes.
func Allocate(size int) (*Buffer, error) {
	if size < 0 {
		return nil, SizeError{Size: size}
	}
	return &Buffer{
		data:  make([]byte, size),
		owned: true,
	}, nil
}

// Wrap returns a buffer viewing b without owning it. The wrapped
// memory is never written to or released by the returned buffer.
func Wrap(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Duplicate returns an owned copy of src.
func Duplicate(src []byte) *Buffer {
	data := make([]byte, len(src))
	copy(data, src)
	return &Buffer{
		data:  data,
		owned: true,
	}
}

// Size returns the number of bytes held by the buffer.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Owned reports whether the buffer owns its backing storage.
func (b *Buffer) Owned() bool {
	return b.owned
}

// Bytes returns the buffer contents. The returned slice aliases
// the backing storage and is only valid until the next mutation.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// ErrInvalidState is returned by [Validate] for a buffer which
// cannot be operated on.
var ErrInvalidState = errors.New("buffer: invalid buffer")

// Validate reports [ErrInvalidState] if b is nil. Every operation which
// reads from or mutates a buffer validates it first. Wrapped buffers are
// valid destinations since mutation replaces the wrapped memory rather
// than writing to it.
func Validate(b *Buffer) error {
	if b == nil {
		return ErrInvalidState
	}
	return nil
}

// Release drops the backing storage. Wrapped memory is left untouched.
// After Release the buffer is empty and owns nothing. Calling Release
// more than once, or on a nil buffer, is a no-op.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.data = nil
	b.owned = false
}

// Resize changes the size of the buffer to n bytes. The prefix
// [0, min(Size(), n)) is preserved. Bytes past the old size are
// unspecified.
func (b *Buffer) Resize(n int) error {
	err := Validate(b)
	if err != nil {
		return err
	}
	if n < 0 {
		return SizeError{Size: n}
	}
	if n == len(b.data) {
		return nil
	}

	data := make([]byte, n)
	copy(data, b.data)
	b.replace(data)
	return nil
}

// ErrNilSource is returned when a copy is requested from a nil source.
var ErrNilSource = errors.New("buffer: nil source")

// OffsetError occurs when a splice offset falls outside the destination.
type OffsetError struct {
	Offset int
	Size   int
}

// Error implements the [builtin.error] interface.
func (e OffsetError) Error() string {
	return fmt.Sprintf("buffer: offset %d out of range for size %d", e.Offset, e.Size)
}

// LengthError occurs when more bytes are requested than the source holds.
type LengthError struct {
	Length    int
	Available int
}

// Error implements the [builtin.error] interface.
func (e LengthError) Error() string {
	return fmt.Sprintf("buffer: length %d out of range for %d available bytes", e.Length, e.Available)
}

// CopyRaw replaces the contents of the buffer with a kept prefix of
// the old contents followed by the first length bytes of src.
//
// A non-negative offset keeps bytes [0, offset). A negative offset
// keeps bytes [0, Size()+offset), dropping the trailing |offset| bytes.
// The resulting size is always the kept prefix length plus length.
//
// src may alias the buffer's own storage.
func (b *Buffer) CopyRaw(src []byte, offset, length int) error {
	err := Validate(b)
	if err != nil {
		return err
	}
	if src == nil && length > 0 {
		return ErrNilSource
	}
	if length < 0 || length > len(src) {
		return LengthError{Length: length, Available: len(src)}
	}

	kept := offset
	if offset < 0 {
		kept = len(b.data) + offset
	}
	if kept < 0 || kept > len(b.data) {
		return OffsetError{Offset: offset, Size: len(b.data)}
	}

	data := make([]byte, kept+length)
	n := copy(data, b.data[:kept])
	copy(data[n:], src[:length])
	b.replace(data)
	return nil
}

// AppendRaw concatenates the first length bytes of src to the buffer.
func (b *Buffer) AppendRaw(src []byte, length int) error {
	err := Validate(b)
	if err != nil {
		return err
	}
	return b.CopyRaw(src, len(b.data), length)
}

func (b *Buffer) replace(data []byte) {
	b.data = data
	b.owned = true
}
