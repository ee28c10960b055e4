// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package buffer provides a type-erased, ownership-tracked byte buffer.
//
// A [Buffer] is used wherever a variable-length, opaque payload must be
// stored or moved without its holder knowing the payload's type. Every
// mutation builds a fresh backing store, so a buffer may safely be copied
// or appended into itself:
//
//	b := buffer.Duplicate([]byte("abc"))
//	err := b.AppendRaw(b.Bytes(), b.Size()) // "abcabc"
//
// Fixed-width words, such as identifiers, can be packed into a buffer with
// [FromWords] and [AppendWords] and read back with [Words].
package buffer
