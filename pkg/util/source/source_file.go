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
	"os"
	"sort"
)

// File is the text of a program, either read from disk or entered
// interactively, held as runes so that spans index characters rather than
// bytes.  The offsets at which lines begin are computed once, on construction.
type File struct {
	filename string
	contents []rune
	// Offset of the first character of each line, in ascending order.  There
	// is always at least one line, even for empty text.
	starts []int
}

// ReadFile reads a given source file from disk, or produces an error.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return NewSourceFile(filename, bytes), nil
}

// NewSourceFile constructs a source file from its raw (UTF-8) contents.
func NewSourceFile(filename string, bytes []byte) *File {
	return NewSourceString(filename, string(bytes))
}

// NewSourceString constructs a source file from a string, where the name need
// not refer to anything on disk (e.g. "<cell-1>").
func NewSourceString(filename string, text string) *File {
	var (
		contents = []rune(text)
		starts   = []int{0}
	)
	//
	for i, c := range contents {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	//
	return &File{filename, contents, starts}
}

// Filename returns the name of this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the characters of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// Lines returns the number of lines in this file.  Text ending in a newline
// has a final, empty, line.
func (s *File) Lines() int {
	return len(s.starts)
}

// Text returns the text covered by a given span of this file.
func (s *File) Text(span Span) string {
	return string(s.contents[span.start:span.end])
}

// SyntaxError constructs an error located at a given span of this file.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// LineAt returns the line containing a given offset.  A newline belongs to the
// line it terminates, and offsets past the end of the text belong to the last
// line.
func (s *File) LineAt(offset int) Line {
	// Index of the last line starting at or before offset
	index := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > offset }) - 1
	index = max(index, 0)
	//
	end := len(s.contents)
	if index+1 < len(s.starts) {
		end = s.starts[index+1] - 1
	}
	//
	return Line{s.contents, Span{s.starts[index], end}, index + 1}
}

// Position returns the line and column (both counting from 1) of a given
// offset.
func (s *File) Position(offset int) (int, int) {
	line := s.LineAt(offset)
	//
	return line.number, 1 + offset - line.span.start
}

// Line is one line of a source file, excluding its terminating newline.
type Line struct {
	text   []rune
	span   Span
	number int
}

// Number returns the line number, counting from 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the offset of the first character of this line.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters on this line.
func (p *Line) Length() int {
	return p.span.Length()
}

func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// SyntaxError is an error attributed to a span of some source file.  Parse
// errors, failed expansions and runtime errors are all reported this way.
type SyntaxError struct {
	srcfile *File
	span    Span
	msg     string
}

// SourceFile returns the file in which this error arose.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the text to which this error is attributed.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message of this error, without its location.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Line returns the line on which this error starts.
func (p *SyntaxError) Line() Line {
	return p.srcfile.LineAt(p.span.start)
}

// Error formats this error as "file:line:column: message".
func (p *SyntaxError) Error() string {
	line, column := p.srcfile.Position(p.span.start)
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.srcfile.filename, line, column, p.msg)
}
