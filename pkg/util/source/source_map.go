// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package source

import (
	"fmt"
)

// Span represents a contiguous slice of the original string.  Instead of
// representing this as a string slice, however, it is useful to retain the
// physical indices.  This allows us to do certain things, such as determine the
// enclosing line, etc.
type Span struct {
	// The first character of this span in the original string.
	start int
	// One past the final character of this span in the original string.
	end int
}

// NewSpan constructs a new span whilst checking the internal invariants are
// maintained.
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the starting index of this span in the original string.
func (p *Span) Start() int {
	return p.start
}

// End returns one past the last index of this span in the original string.
func (p *Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span in the original
// string.
func (p *Span) Length() int {
	return p.end - p.start
}

// Map maps nodes from a syntax tree to slices of their originating string.
// This is important for error handling when we wish to highlight exactly
// where, in the original source file, a given error has arisen.  Nodes
// synthesised after parsing (e.g. by macro expansion) have no entry until one
// is explicitly assigned.
type Map[T comparable] struct {
	// Maps a given AST object to a span in the original string.
	mapping map[T]Span
	// Enclosing source file
	srcfile *File
}

// NewSourceMap constructs an initially empty source map for a given file.
func NewSourceMap[T comparable](srcfile *File) *Map[T] {
	mapping := make(map[T]Span)
	return &Map[T]{mapping, srcfile}
}

// Source returns the underlying source file on which this map operates.
func (p *Map[T]) Source() *File {
	return p.srcfile
}

// Put registers a new AST item with a given span.  Note, if the item exists
// already, then it will panic.
func (p *Map[T]) Put(item T, span Span) {
	if _, ok := p.mapping[item]; ok {
		panic(fmt.Sprintf("source map key already exists: %v", any(item)))
	}
	// Assign it
	p.mapping[item] = span
}

// Has checks whether a given item is contained within this source map.
func (p *Map[T]) Has(item T) bool {
	_, ok := p.mapping[item]
	return ok
}

// Get determines the span associated with a given AST item extract from the
// original text.  Note, if the item is not registered with this source map,
// then it will panic.
func (p *Map[T]) Get(item T) Span {
	if s, ok := p.mapping[item]; ok {
		return s
	}

	panic(fmt.Sprintf("invalid source map key: %v", any(item)))
}

// Lookup returns the span associated with a given item, if there is one.
func (p *Map[T]) Lookup(item T) (Span, bool) {
	s, ok := p.mapping[item]
	return s, ok
}

// Copy copies the source mapping for one node to the source mapping for
// another.  The main use of this is when an existing node is expanded into some
// other nodes (e.g. during macro expansion).  Nothing happens when the source
// node has no mapping, or the target already has one.
func (p *Map[T]) Copy(from T, to T) {
	if span, ok := p.mapping[from]; ok && !p.Has(to) {
		p.mapping[to] = span
	}
}

// Len returns the number of items recorded in this map.
func (p *Map[T]) Len() int {
	return len(p.mapping)
}

// SyntaxError constructs a syntax error for a given node contained within this
// source map.  If the node is not mapped, the error covers the whole file.
func (p *Map[T]) SyntaxError(node T, msg string) *SyntaxError {
	if span, ok := p.mapping[node]; ok {
		return p.srcfile.SyntaxError(span, msg)
	}
	//
	return p.srcfile.SyntaxError(NewSpan(0, len(p.srcfile.contents)), msg)
}
