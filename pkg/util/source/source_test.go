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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	id int
}

func TestSourceFile_Lines(t *testing.T) {
	srcfile := NewSourceString("test.py", "x = 1\ny = f(x)\n")
	assert.Equal(t, 3, srcfile.Lines())
	//
	line := srcfile.LineAt(10)
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, 6, line.Start())
	assert.Equal(t, "y = f(x)", line.String())
	assert.Equal(t, 8, line.Length())
	// A newline belongs to the line it ends
	line = srcfile.LineAt(5)
	assert.Equal(t, 1, line.Number())
	assert.Equal(t, "x = 1", line.String())
	// Beyond the end of the file
	line = srcfile.LineAt(100)
	assert.Equal(t, 3, line.Number())
	assert.Equal(t, "", line.String())
	// Text without a trailing newline
	line = NewSourceString("test.py", "a\nbc").LineAt(4)
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "bc", line.String())
	assert.Equal(t, 1, NewSourceString("empty.py", "").Lines())
}

func TestSourceFile_Position(t *testing.T) {
	srcfile := NewSourceString("test.py", "x = 1\ny = f(x)\n")
	//
	line, column := srcfile.Position(0)
	assert.Equal(t, []int{1, 1}, []int{line, column})
	line, column = srcfile.Position(10)
	assert.Equal(t, []int{2, 5}, []int{line, column})
	line, column = srcfile.Position(15)
	assert.Equal(t, []int{3, 1}, []int{line, column})
}

func TestSourceFile_SyntaxError(t *testing.T) {
	srcfile := NewSourceString("test.py", "x = 1\ny = f(x)\n")
	err := srcfile.SyntaxError(NewSpan(10, 14), "bad call")
	//
	assert.Equal(t, "test.py:2:5: bad call", err.Error())
	assert.Equal(t, "bad call", err.Message())
	assert.Same(t, srcfile, err.SourceFile())
	assert.Equal(t, "f(x)", srcfile.Text(err.Span()))
	//
	line := err.Line()
	assert.Equal(t, "y = f(x)", line.String())
}

func TestSourceFile_Read(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "main.py")
	require.NoError(t, os.WriteFile(filename, []byte("ü = 1\n"), 0o600))
	//
	srcfile, err := ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, filename, srcfile.Filename())
	// Contents are held as runes
	assert.Len(t, srcfile.Contents(), 6)
	//
	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
}

func TestSourceMap(t *testing.T) {
	var (
		srcfile = NewSourceString("test.py", "abc def")
		srcmap  = NewSourceMap[*node](srcfile)
		n1, n2  = &node{1}, &node{2}
		n3      = &node{3}
	)
	//
	srcmap.Put(n1, NewSpan(0, 3))
	srcmap.Put(n2, NewSpan(4, 7))
	//
	assert.True(t, srcmap.Has(n1))
	assert.False(t, srcmap.Has(n3))
	assert.Equal(t, NewSpan(4, 7), srcmap.Get(n2))
	assert.Equal(t, 2, srcmap.Len())
	assert.Same(t, srcfile, srcmap.Source())
	// Duplicates are not permitted
	assert.Panics(t, func() { srcmap.Put(n1, NewSpan(0, 1)) })
	assert.Panics(t, func() { srcmap.Get(n3) })
	//
	_, ok := srcmap.Lookup(n3)
	assert.False(t, ok)
}

func TestSourceMap_Copy(t *testing.T) {
	var (
		srcmap     = NewSourceMap[*node](NewSourceString("test.py", "abc def"))
		n1, n2, n3 = &node{1}, &node{2}, &node{3}
	)
	//
	srcmap.Put(n1, NewSpan(0, 3))
	srcmap.Put(n2, NewSpan(4, 7))
	// Copying never overwrites an existing mapping
	srcmap.Copy(n1, n3)
	srcmap.Copy(n1, n2)
	//
	assert.Equal(t, NewSpan(0, 3), srcmap.Get(n3))
	assert.Equal(t, NewSpan(4, 7), srcmap.Get(n2))
	// Copying from an unmapped node does nothing
	srcmap.Copy(&node{4}, &node{5})
	assert.Equal(t, 3, srcmap.Len())
}

func TestSourceMap_SyntaxError(t *testing.T) {
	var (
		srcmap = NewSourceMap[*node](NewSourceString("test.py", "abc def"))
		n1     = &node{1}
	)
	//
	srcmap.Put(n1, NewSpan(4, 7))
	//
	assert.Equal(t, "test.py:1:5: oops", srcmap.SyntaxError(n1, "oops").Error())
	// Unmapped nodes cover the whole file
	err := srcmap.SyntaxError(&node{2}, "oops")
	assert.Equal(t, NewSpan(0, 7), err.Span())
}

func TestSpan(t *testing.T) {
	span := NewSpan(2, 5)
	//
	assert.Equal(t, 2, span.Start())
	assert.Equal(t, 5, span.End())
	assert.Equal(t, 3, span.Length())
	assert.Panics(t, func() { NewSpan(5, 2) })
}
