// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package buffer

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Word is any fixed-width unsigned integer which can be packed into a [Buffer].
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// WidthOf returns the packed width, in bytes, of T.
func WidthOf[T Word]() int {
	var zero T
	return binary.Size(zero)
}

// AlignmentError occurs when a buffer does not hold a whole number of words.
type AlignmentError struct {
	Size  int
	Width int
}

// Error implements the [builtin.error] interface.
func (e AlignmentError) Error() string {
	return fmt.Sprintf("buffer: size %d is not a multiple of word width %d", e.Size, e.Width)
}

// IndexError occurs when a word index is outside of a buffer.
type IndexError struct {
	Index int
	Len   int
}

// Error implements the [builtin.error] interface.
func (e IndexError) Error() string {
	return fmt.Sprintf("buffer: word index %d out of range [0, %d)", e.Index, e.Len)
}

// FromWords returns an owned buffer holding ws packed in little endian order.
func FromWords[T Word](ws ...T) *Buffer {
	data := make([]byte, 0, len(ws)*WidthOf[T]())
	for _, w := range ws {
		data = appendWord(data, w)
	}
	return &Buffer{
		data:  data,
		owned: true,
	}
}

// AppendWords packs ws onto the end of b.
func AppendWords[T Word](b *Buffer, ws ...T) error {
	if len(ws) == 0 {
		return Validate(b)
	}
	packed := FromWords(ws...)
	return b.AppendRaw(packed.data, packed.Size())
}

// PutWord overwrites the i'th word of b with w in place. A wrapped
// buffer is first copied into owned storage.
func PutWord[T Word](b *Buffer, i int, w T) error {
	n, err := Len[T](b)
	if err != nil {
		return err
	}
	if i < 0 || i >= n {
		return IndexError{Index: i, Len: n}
	}
	if !b.owned {
		b.replace(bytes.Clone(b.data))
	}
	width := WidthOf[T]()
	putWord(b.data[i*width:(i+1)*width], w)
	return nil
}

// Len returns the number of T words held by b.
func Len[T Word](b *Buffer) (int, error) {
	err := Validate(b)
	if err != nil {
		return 0, err
	}
	width := WidthOf[T]()
	if b.Size()%width != 0 {
		return 0, AlignmentError{Size: b.Size(), Width: width}
	}
	return b.Size() / width, nil
}

// WordAt returns the i'th T word held by b.
func WordAt[T Word](b *Buffer, i int) (T, error) {
	n, err := Len[T](b)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, IndexError{Index: i, Len: n}
	}
	width := WidthOf[T]()
	return readWord[T](b.data[i*width : (i+1)*width]), nil
}

// Words unpacks every T word held by b.
func Words[T Word](b *Buffer) ([]T, error) {
	n, err := Len[T](b)
	if err != nil {
		return nil, err
	}
	width := WidthOf[T]()
	ws := make([]T, n)
	for i := range ws {
		ws[i] = readWord[T](b.data[i*width : (i+1)*width])
	}
	return ws, nil
}

func appendWord[T Word](data []byte, w T) []byte {
	width := WidthOf[T]()
	data = append(data, make([]byte, width)...)
	putWord(data[len(data)-width:], w)
	return data
}

func putWord[T Word](b []byte, w T) {
	switch len(b) {
	case 1:
		b[0] = byte(w)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(w))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(w))
	default:
		binary.LittleEndian.PutUint64(b, uint64(w))
	}
}

func readWord[T Word](b []byte) T {
	switch len(b) {
	case 1:
		return T(b[0])
	case 2:
		return T(binary.LittleEndian.Uint16(b))
	case 4:
		return T(binary.LittleEndian.Uint32(b))
	default:
		return T(binary.LittleEndian.Uint64(b))
	}
}
