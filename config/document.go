// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/z5labs/ignite/internal/try"

	"gopkg.in/yaml.v3"
)

// Format identifies how a config document is encoded.
type Format int

const (
	YAML Format = iota
	JSON
)

// String implements the [fmt.Stringer] interface.
func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// UnknownFormatError occurs when a document's [Format] can not be determined.
type UnknownFormatError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unsupported config format: %s", e.Name)
}

// FormatOf picks the [Format] of a file from its extension:
// .yaml and .yml are [YAML], .json is [JSON].
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return 0, UnknownFormatError{Name: name}
	}
}

func (f Format) decode(b []byte) (map[string]any, error) {
	m := make(map[string]any)
	switch f {
	case YAML:
		return m, yaml.Unmarshal(b, &m)
	case JSON:
		return m, json.Unmarshal(b, &m)
	default:
		return nil, UnknownFormatError{Name: f.String()}
	}
}

// DecodeError occurs when a document is not valid in its [Format].
type DecodeError struct {
	Name   string
	Format Format
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e DecodeError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %s", e.Format, e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e DecodeError) Unwrap() error {
	return e.Cause
}

// Document is a [Source] holding a single encoded config document.
// Nested objects become nested keys.
type Document struct {
	name   string
	format Format
	open   func() (io.Reader, error)
}

// FromReader returns a [Document] decoded from r. If r is an
// [io.Closer] it is closed once read.
func FromReader(r io.Reader, f Format) Document {
	return Document{
		name:   f.String() + " reader",
		format: f,
		open: func() (io.Reader, error) {
			return r, nil
		},
	}
}

// FromFile returns a [Document] read from name within fsys, decoded
// in the [Format] given by the file extension. Nothing is opened until
// the document is applied.
func FromFile(fsys fs.FS, name string) Document {
	f, ferr := FormatOf(name)
	return Document{
		name:   name,
		format: f,
		open: func() (io.Reader, error) {
			if ferr != nil {
				return nil, ferr
			}
			return fsys.Open(name)
		},
	}
}

// Apply implements the [Source] interface.
func (d Document) Apply(store Store) (err error) {
	r, err := d.open()
	if err != nil {
		return err
	}
	defer try.Close(&err, r)

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m, err := d.format.decode(b)
	if err != nil {
		return DecodeError{
			Name:   d.name,
			Format: d.format,
			Cause:  err,
		}
	}
	return Map(m).Apply(store)
}
