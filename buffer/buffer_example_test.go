// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package buffer

import "fmt"

func ExampleBuffer_AppendRaw() {
	b := Duplicate([]byte("abc"))

	err := b.AppendRaw(b.Bytes(), b.Size())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(string(b.Bytes()))
	// Output: abcabc
}

func ExampleBuffer_CopyRaw() {
	b := Duplicate([]byte("Hello world"))

	// drop the trailing "world" before splicing
	err := b.CopyRaw([]byte("gopher"), -5, 6)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(string(b.Bytes()))
	// Output: Hello gopher
}

func ExampleWords() {
	b := FromWords[uint64](1, 2)

	err := AppendWords[uint64](b, 3)
	if err != nil {
		fmt.Println(err)
		return
	}

	ws, err := Words[uint64](b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(ws)
	// Output: [1 2 3]
}
