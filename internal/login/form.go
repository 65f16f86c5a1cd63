// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"net/url"
	"strings"
)

// Form is an ordered set of request fields with overwrite-by-key
// semantics. Setting an existing name updates its value in place,
// preserving the position where the name was first introduced; setting a
// new name appends. The serialized field order is part of the protocol
// surface and must be reproducible.
type Form struct {
	names  []string
	values map[string]string
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{values: make(map[string]string)}
}

// Set inserts or overwrites a field.
func (f *Form) Set(name, value string) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Get returns the value for name, or ok=false when the field is unset.
func (f *Form) Get(name string) (value string, ok bool) {
	value, ok = f.values[name]
	return value, ok
}

// Len returns the number of fields.
func (f *Form) Len() int {
	return len(f.names)
}

// Encode serializes the form as an application/x-www-form-urlencoded
// body, fields in first-introduced order.
func (f *Form) Encode() string {
	var b strings.Builder
	for i, name := range f.names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.values[name]))
	}
	return b.String()
}
