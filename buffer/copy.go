// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package buffer

// CopyOption configures [Buffer.CopyFrom] and [Buffer.AppendFrom].
type CopyOption func(*copyOptions)

type copyOptions struct {
	offset int
	amount int
}

// Offset sets the splice point in the destination. See [Buffer.CopyRaw]
// for the meaning of negative offsets.
func Offset(n int) CopyOption {
	return func(co *copyOptions) {
		co.offset = n
	}
}

// Amount limits the number of bytes taken from the source.
func Amount(n int) CopyOption {
	return func(co *copyOptions) {
		co.amount = n
	}
}

// CopyFrom is [Buffer.CopyRaw] sourced from another [Buffer]. By default
// it replaces the whole destination with the whole source.
func (b *Buffer) CopyFrom(src *Buffer, opts ...CopyOption) error {
	return b.copyFrom(src, 0, opts)
}

// AppendFrom is [Buffer.AppendRaw] sourced from another [Buffer]. By
// default the whole source is appended.
func (b *Buffer) AppendFrom(src *Buffer, opts ...CopyOption) error {
	err := Validate(b)
	if err != nil {
		return err
	}
	return b.copyFrom(src, b.Size(), opts)
}

func (b *Buffer) copyFrom(src *Buffer, defaultOffset int, opts []CopyOption) error {
	err := Validate(src)
	if err != nil {
		return err
	}

	co := copyOptions{
		offset: defaultOffset,
		amount: src.Size(),
	}
	for _, opt := range opts {
		opt(&co)
	}
	if co.amount > src.Size() {
		return LengthError{Length: co.amount, Available: src.Size()}
	}

	data := src.data
	if data == nil {
		data = []byte{}
	}
	return b.CopyRaw(data, co.offset, co.amount)
}
