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
package cmd

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/consensys/go-sublambda/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const MACROS = `double lambda x: x + x
f lambda x: (z := x ** 2, z + x + 1)[-1]
`

func Test_ExpandFile(t *testing.T) {
	dir := t.TempDir()
	macros := writeFile(t, dir, "macros.txt", MACROS)
	srcfile := writeFile(t, dir, "main.py", "y = double(1 + 2) + 3 + 4\n")
	//
	pipeline, err := buildPipeline(macros, false)
	require.NoError(t, err)
	//
	text, err := expandFile(pipeline, srcfile, false)
	require.NoError(t, err)
	assert.Equal(t, "y = 1 + 2 + (1 + 2) + 3 + 4\n", text)
	//
	text, err = expandFile(pipeline, srcfile, true)
	require.NoError(t, err)
	assert.Equal(t, "y = 13\n", text)
}

func Test_ExpandFile_Hygienic(t *testing.T) {
	dir := t.TempDir()
	macros := writeFile(t, dir, "macros.txt", MACROS)
	srcfile := writeFile(t, dir, "main.py", "r = f(a)\n")
	//
	pipeline, err := buildPipeline(macros, true)
	require.NoError(t, err)
	//
	text, err := expandFile(pipeline, srcfile, false)
	require.NoError(t, err)
	assert.Equal(t, "r = (z$f$1 := a ** 2, z$f$1 + a + 1)[-1]\n", text)
}

func Test_ExpandFile_Errors(t *testing.T) {
	dir := t.TempDir()
	macros := writeFile(t, dir, "macros.txt", MACROS)
	srcfile := writeFile(t, dir, "main.py", "y = 1\ny = double(1, 2)\n")
	//
	pipeline, err := buildPipeline(macros, false)
	require.NoError(t, err)
	//
	_, err = expandFile(pipeline, srcfile, false)
	//
	var arity *macro.ArityError
	require.True(t, errors.As(err, &arity))
	assert.Equal(t, 2, arity.Actual)
	assert.NotNil(t, arity.Location)
	// Missing files
	_, err = expandFile(pipeline, filepath.Join(dir, "missing.py"), false)
	//
	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func Test_BuildPipeline_Errors(t *testing.T) {
	dir := t.TempDir()
	//
	_, err := buildPipeline(writeFile(t, dir, "shape.txt", "f f(x)\n"), false)
	//
	var shape *macro.ShapeError
	assert.True(t, errors.As(err, &shape))
	assert.True(t, strings.HasPrefix(err.Error(), filepath.Join(dir, "shape.txt")))
	//
	_, err = buildPipeline(writeFile(t, dir, "parse.txt", "f lambda x: (\n"), false)
	//
	var parse *macro.ParseError
	assert.True(t, errors.As(err, &parse))
	//
	_, err = buildPipeline(filepath.Join(dir, "missing.txt"), false)
	//
	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func Test_RunBatch(t *testing.T) {
	var (
		out     bytes.Buffer
		console = session.NewConsole(session.New(&out), &out)
		input   = strings.Join([]string{
			":hygienic inline",
			"f lambda x: (z := x ** 2, z + x + 1)[-1]",
			"",
			":inline",
			"def wonkify():",
			"    z = 42",
			"    f(99)",
			"    return z",
			"",
			"wonkify()",
		}, "\n")
	)
	//
	assert.True(t, runBatch(console, strings.NewReader(input)))
	assert.Equal(t, "defined inline {f(x)}\n42\n", out.String())
}

func Test_RunBatch_Quit(t *testing.T) {
	var (
		out     bytes.Buffer
		console = session.NewConsole(session.New(&out), &out)
	)
	//
	assert.True(t, runBatch(console, strings.NewReader("1 + 1\n:quit\n2 + 2\n")))
	assert.Equal(t, "2\n", out.String())
}

func writeFile(t *testing.T, dir string, name string, contents string) string {
	t.Helper()
	//
	filename := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o600))
	//
	return filename
}
