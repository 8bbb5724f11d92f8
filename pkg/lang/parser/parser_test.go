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
package parser

import (
	"testing"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/lang/printer"
	"github.com/consensys/go-sublambda/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Round trips
// ============================================================================

func Test_Parse_RoundTrip(t *testing.T) {
	tests := []string{
		"x = 1\n",
		"y = f(a, b, k=1)\n",
		"f()\n",
		"def f(x, y):\n    z = x + y\n    return z\n",
		"def f():\n    return\n",
		"if x < 1:\n    y = 1\nelif x == 2:\n    y = 2\nelse:\n    pass\n",
		"while n > 0:\n    n = n - 1\n",
		"r = (z := x ** 2, z + x + 1)[-1]\n",
		"g = lambda a, b: a * b\n",
		"h = lambda: None\n",
		"t = (1,)\n",
		"e = ()\n",
		"l = [1, \"a\", True, None, False]\n",
		"a - (b - c)\n",
		"x = not a and b or c\n",
		"x = (a or b) and c\n",
		"x = 2 ** -1\n",
		"x = -2 ** 2\n",
		"x = (2 ** 3) ** 2\n",
		"x = a[0][1]\n",
		"x = (lambda: 1)()\n",
		"x = 7 // 2 % 3 * 4\n",
		"x = a != b\n",
	}
	//
	for _, text := range tests {
		module, errs := ParseModuleString(text)
		require.Empty(t, errs, "parsing %q", text)
		assert.Equal(t, text, printer.String(module))
	}
}

func Test_Parse_Normalised(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{"x=1 # comment\n\n\ny   =  2", "x = 1\ny = 2\n"},
		{"if x: y = 1\n", "if x:\n    y = 1\n"},
		{"x = 0xff_ff + 1_000\n", "x = 65535 + 1000\n"},
		{"f(\n  1,\n  2,\n)\n", "f(1, 2)\n"},
		{"x = 1, 2\n", "x = (1, 2)\n"},
		{"x = 'it'\n", "x = \"it\"\n"},
		{"x = ((1))\n", "x = 1\n"},
		{"if a:\n  if b:\n    pass\nelse:\n  pass\n", "if a:\n    if b:\n        pass\nelse:\n    pass\n"},
		{"# only a comment\n", ""},
		{"print((y := 1), y)\n", "print(y := 1, y)\n"},
	}
	//
	for _, test := range tests {
		module, errs := ParseModuleString(test.input)
		require.Empty(t, errs, "parsing %q", test.input)
		assert.Equal(t, test.output, printer.String(module))
	}
}

func Test_Parse_Contexts(t *testing.T) {
	module, errs := ParseModuleString("x = y\n(z := x)\n")
	require.Empty(t, errs)
	//
	assign := module.Body[0].(*ast.Assign)
	assert.Equal(t, ast.NewName("x", ast.Write), assign.Target)
	assert.Equal(t, ast.NewName("y", ast.Read), assign.Value)
	//
	named := module.Body[1].(*ast.ExprStmt).Value.(*ast.NamedExpr)
	assert.Equal(t, ast.NewName("z", ast.Write), named.Target)
	assert.Equal(t, ast.NewName("x", ast.Read), named.Value)
}

func Test_Parse_Expression(t *testing.T) {
	expr, errs := ParseExpressionString("  lambda x: (z := x ** 2, z + x + 1)[-1]\n")
	require.Empty(t, errs)
	//
	lambda, ok := expr.(*ast.Lambda)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, lambda.Params)
	assert.IsType(t, &ast.Subscript{}, lambda.Body)
	//
	expr, errs = ParseExpressionString("1, 2")
	require.Empty(t, errs)
	assert.IsType(t, &ast.Tuple{}, expr)
}

// ============================================================================
// Source maps
// ============================================================================

func Test_Parse_SourceMap(t *testing.T) {
	srcfile := source.NewSourceString("test.py", "x = 1\ny = f(2, k=[3])\n")
	//
	module, srcmap, errs := ParseModule(srcfile)
	require.Empty(t, errs)
	//
	assign := module.Body[1].(*ast.Assign)
	call := assign.Value.(*ast.Call)
	//
	assert.Equal(t, "y = f(2, k=[3])", srcfile.Text(srcmap.Get(assign)))
	assert.Equal(t, "y", srcfile.Text(srcmap.Get(assign.Target)))
	assert.Equal(t, "f(2, k=[3])", srcfile.Text(srcmap.Get(call)))
	assert.Equal(t, "k=[3]", srcfile.Text(srcmap.Get(call.Keywords[0])))
	assert.Equal(t, "[3]", srcfile.Text(srcmap.Get(call.Keywords[0].Value)))
	// Every node is mapped
	ast.Inspect(module, func(node ast.Node) bool {
		assert.True(t, srcmap.Has(node), "%T not mapped", node)
		return true
	})
}

func Test_Parse_SourceMap_Pass(t *testing.T) {
	// Distinct statements must map independently
	module, srcmap, errs := ParseModule(source.NewSourceString("test.py", "pass\npass\n"))
	require.Empty(t, errs)
	//
	first, second := srcmap.Get(module.Body[0]), srcmap.Get(module.Body[1])
	assert.Equal(t, 0, first.Start())
	assert.Equal(t, 5, second.Start())
}

// ============================================================================
// Errors
// ============================================================================

func Test_Parse_Errors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		line    int
	}{
		{"x = $y\n", "unknown text encountered", 1},
		{"x = 1\n  y = 2\n", "unexpected indent", 2},
		{"def f():\n    x = 1\n  y = 2\n", "inconsistent indentation", 3},
		{"def f(x, x):\n    pass\n", "duplicate parameter", 1},
		{"f(a=1, 2)\n", "positional argument follows keyword argument", 1},
		{"x = 1 < 2 < 3\n", "chained comparisons are not supported", 1},
		{"x = 99999999999999999999\n", "malformed numeric literal", 1},
		{"x = (1", "unexpected token", 1},
	}
	//
	for _, test := range tests {
		_, errs := ParseModuleString(test.input)
		require.Len(t, errs, 1, "parsing %q", test.input)
		//
		line := errs[0].Line()
		assert.Equal(t, test.message, errs[0].Message(), "parsing %q", test.input)
		assert.Equal(t, test.line, line.Number(), "parsing %q", test.input)
	}
}

func Test_Parse_ExpressionErrors(t *testing.T) {
	_, errs := ParseExpressionString("")
	require.Len(t, errs, 1)
	assert.Equal(t, "expected expression", errs[0].Message())
	//
	_, errs = ParseExpressionString("x = 1")
	require.Len(t, errs, 1)
	assert.Equal(t, "unexpected token", errs[0].Message())
	//
	_, errs = ParseExpressionString("x\ny")
	require.Len(t, errs, 1)
}
