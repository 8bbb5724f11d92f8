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
package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/consensys/go-sublambda/pkg/lang/interp"
	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const SUBLAMBDA_CELL = "f lambda x: (z := x ** 2, z + x + 1)[-1]"

const TARGET_CELL = `def wonkify():
    z = 42
    f(99)
    return z
`

func Test_Session_Sublambdas(t *testing.T) {
	assert.Equal(t, int64(9801), runWonkify(t, false))
}

func Test_Session_HygienicSublambdas(t *testing.T) {
	assert.Equal(t, int64(42), runWonkify(t, true))
}

func Test_Session_Commands(t *testing.T) {
	s := New(nil)
	assert.Equal(t, []string{FOLD_COMMAND}, s.Commands())
	//
	_, err := s.DefineMacros("inline", "double lambda x: x + x", false)
	require.NoError(t, err)
	assert.Equal(t, []string{FOLD_COMMAND, "inline"}, s.Commands())
	assert.True(t, s.HasCommand("inline"))
	// Unknown commands are errors
	assert.Error(t, s.RunCell("missing", "x = 1\n"))
}

func Test_Session_Persistence(t *testing.T) {
	s := New(nil)
	//
	_, err := s.DefineMacros("inline", "double lambda x: x + x", true)
	require.NoError(t, err)
	require.NoError(t, s.Exec("y = 4\n"))
	require.NoError(t, s.RunCell("inline", "z = double(y)\n"))
	//
	value, err := s.Eval("z + 1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), value)
}

func Test_Session_Fold(t *testing.T) {
	s := New(nil)
	//
	text, err := s.Show(FOLD_COMMAND, "x = 1 + 2 + y + 3\n")
	require.NoError(t, err)
	assert.Equal(t, "x = 6 + y\n", text)
	//
	require.NoError(t, s.RunCell(FOLD_COMMAND, "x = 'a' + 'b'\n"))
	//
	value, ok := s.Interpreter().Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "ab", value)
}

func Test_Session_Errors(t *testing.T) {
	s := New(nil)
	//
	_, err := s.DefineMacros("bad", "f f(x)", false)
	//
	var shape *macro.ShapeError
	assert.True(t, errors.As(err, &shape))
	assert.False(t, s.HasCommand("bad"))
	//
	_, err = s.DefineMacros("inline", "f lambda x: x", false)
	require.NoError(t, err)
	//
	err = s.RunCell("inline", "y = f(1, 2)\n")
	//
	var arity *macro.ArityError
	require.True(t, errors.As(err, &arity))
	assert.True(t, strings.HasPrefix(err.Error(), "<cell-"))
	//
	err = s.Exec("y = (\n")
	//
	var perr *macro.ParseError
	assert.True(t, errors.As(err, &perr))
	//
	err = s.Exec("y = undefined\n")
	//
	var rerr *interp.RuntimeError
	assert.True(t, errors.As(err, &rerr))
}

// ===================================================================
// Console
// ===================================================================

func Test_Console_Wonkify(t *testing.T) {
	out := runConsole(t,
		":hygienic inline",
		SUBLAMBDA_CELL,
		"",
		":inline",
		"def wonkify():",
		"    z = 42",
		"    f(99)",
		"    return z",
		"",
		"wonkify()",
	)
	//
	assert.Equal(t, "defined inline {f(x)}\n42\n", out)
}

func Test_Console_Show(t *testing.T) {
	out := runConsole(t,
		":sublambdas inline",
		"double lambda x: x + x",
		"",
		":show inline",
		"y = double(1 + 2)",
		"",
		":show fold",
		"y = 1 + 2 + 3",
		"",
	)
	//
	assert.Equal(t, "defined inline {double(x)}\ny = 1 + 2 + (1 + 2)\ny = 6\n", out)
}

func Test_Console_Statements(t *testing.T) {
	out := runConsole(t,
		"x = 3",
		"def sq(y):",
		"    return y * y",
		"",
		"sq(x)",
		":eval sq(x) + 1",
		"print('hello')",
		"None",
	)
	//
	assert.Equal(t, "9\n10\nhello\n", out)
}

func Test_Console_Directives(t *testing.T) {
	var out bytes.Buffer
	//
	c := NewConsole(New(&out), &out)
	assert.Equal(t, PROMPT, c.Prompt())
	//
	require.NoError(t, c.Input(":commands"))
	assert.Equal(t, "fold\n", out.String())
	assert.Error(t, c.Input(":unknown"))
	assert.Error(t, c.Input(":sublambdas"))
	assert.Error(t, c.Input(":show missing"))
	//
	require.NoError(t, c.Input(":fold"))
	assert.Equal(t, CONTINUATION_PROMPT, c.Prompt())
	require.NoError(t, c.Input("x = 1 + 1"))
	require.NoError(t, c.Flush())
	assert.Equal(t, PROMPT, c.Prompt())
	//
	// Abandoned entries are never executed
	require.NoError(t, c.Input("def broken(:"))
	c.Reset()
	assert.Equal(t, PROMPT, c.Prompt())
	require.NoError(t, c.Flush())
	//
	assert.ErrorIs(t, c.Input(":quit"), ErrQuit)
}

// ===================================================================
// Helpers
// ===================================================================

func runWonkify(t *testing.T, hygienic bool) interp.Value {
	t.Helper()
	//
	s := New(nil)
	//
	_, err := s.DefineMacros("sublambdas_result", SUBLAMBDA_CELL, hygienic)
	require.NoError(t, err)
	require.NoError(t, s.RunCell("sublambdas_result", TARGET_CELL))
	//
	value, err := s.Call("wonkify")
	require.NoError(t, err)
	//
	return value
}

func runConsole(t *testing.T, lines ...string) string {
	t.Helper()
	//
	var out bytes.Buffer
	//
	c := NewConsole(New(&out), &out)
	//
	for _, line := range lines {
		require.NoError(t, c.Input(line), "input %q", line)
	}
	//
	require.NoError(t, c.Flush())
	//
	return out.String()
}
