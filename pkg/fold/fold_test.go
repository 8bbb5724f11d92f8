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
package fold

import (
	"testing"

	"github.com/consensys/go-sublambda/pkg/lang/parser"
	"github.com/consensys/go-sublambda/pkg/lang/printer"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Fold_01(t *testing.T) {
	checkFold(t, "1 + 2 + 3", "6")
}

func Test_Fold_02(t *testing.T) {
	checkFold(t, "1 + 2 + zab", "3 + zab")
}

func Test_Fold_03(t *testing.T) {
	checkFold(t, "1 + 2 + frotz + 3 + 4", "10 + frotz")
}

func Test_Fold_04(t *testing.T) {
	checkFold(t, "1 + 2 + frotz + \"3\" + \"4\"", "3 + frotz + \"34\"")
}

func Test_Fold_05(t *testing.T) {
	checkFold(t, "x + 1 + 2", "x + 3")
}

func Test_Fold_06(t *testing.T) {
	// Strings are only combined when adjacent
	checkFold(t, "'a' + x + 'b'", "'a' + x + 'b'")
	checkFold(t, "x + 'a' + 'b'", "x + 'ab'")
}

func Test_Fold_07(t *testing.T) {
	// Mixed types are never combined
	checkFold(t, "1 + 'a'", "1 + 'a'")
	checkFold(t, "x + 1 + 'a'", "x + 1 + 'a'")
	checkFold(t, "True + 1", "True + 1")
}

func Test_Fold_08(t *testing.T) {
	// Only additions are folded, though within any expression
	checkFold(t, "2 * 3", "2 * 3")
	checkFold(t, "f(1 + 2, k=[3 + 4])", "f(3, k=[7])")
	checkFold(t, "x + (1 + 2)", "x + 3")
	checkFold(t, "lambda y: y + 1 + 1", "lambda y: y + 2")
}

func Test_Fold_Module(t *testing.T) {
	module, errs := parser.ParseModuleString("def f(x):\n    y = 1 + 2 + x + 3\n    return y\n")
	require.Empty(t, errs)
	//
	folded := Module(module)
	assert.Equal(t, "def f(x):\n    y = 6 + x\n    return y\n", printer.String(folded))
	// The original is unchanged
	assert.Equal(t, "def f(x):\n    y = 1 + 2 + x + 3\n    return y\n", printer.String(module))
}

func checkFold(t *testing.T, input string, output string) {
	t.Helper()
	//
	expr, errs := parser.ParseExpressionString(input)
	require.Empty(t, errs)
	//
	expected, errs := parser.ParseExpressionString(output)
	require.Empty(t, errs)
	//
	actual := Expr(expr)
	//
	if !assert.Equal(t, expected, actual) {
		t.Logf("%# v", pretty.Formatter(actual))
	}
	// Sanity check printing
	assert.Equal(t, printer.String(expected), printer.String(actual))
}
