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
package macro

import (
	"errors"
	"testing"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/lang/parser"
	"github.com/consensys/go-sublambda/pkg/lang/printer"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Substitute_01(t *testing.T) {
	mapping := map[string]ast.Expr{"x": ast.NewConstant(int64(1))}
	result := Substitute(mapping, parseExpr(t, "x + y * x"))
	// Replacements are spliced without copying
	binop := result.(*ast.BinOp)
	assert.Same(t, mapping["x"], binop.Left)
	assert.Same(t, mapping["x"], binop.Right.(*ast.BinOp).Right)
	assert.Equal(t, "1 + y * 1", printer.String(result))
}

func Test_Substitute_02(t *testing.T) {
	// Assignment targets are not replaced
	mapping := map[string]ast.Expr{"x": ast.NewName("y", ast.Read)}
	result := Substitute(mapping, parseExpr(t, "(x := x + 1)"))
	assert.Equal(t, "x := y + 1", printer.String(result))
}

func Test_Substitute_03(t *testing.T) {
	// Unmapped names pass through
	result := Substitute(map[string]ast.Expr{}, parseExpr(t, "f(x, k=y)"))
	assert.Equal(t, parseExpr(t, "f(x, k=y)"), result)
}

func Test_Macro_Build(t *testing.T) {
	double := newMacro(t, "double", "lambda x: x + x")
	assert.Equal(t, 1, double.Arity())
	//
	result, err := double.Build(parseExpr(t, "3"))
	require.NoError(t, err)
	assert.Equal(t, parseExpr(t, "3 + 3"), result)
	// Repeated uses of a parameter never share structure
	binop := result.(*ast.BinOp)
	assert.NotSame(t, binop.Left, binop.Right)
}

func Test_Macro_Arity(t *testing.T) {
	f := newMacro(t, "f", "lambda x: x")
	//
	_, err := f.Build(parseExpr(t, "a"), parseExpr(t, "b"))
	//
	var arity *ArityError
	require.True(t, errors.As(err, &arity))
	assert.Equal(t, "f", arity.Macro)
	assert.Equal(t, 1, arity.Expected)
	assert.Equal(t, 2, arity.Actual)
}

func Test_Macro_NestedLambda(t *testing.T) {
	// Only the outermost lambda determines arity
	add := newMacro(t, "add", "lambda x: lambda y: x + y")
	assert.Equal(t, []string{"x"}, add.Params())
	//
	result, err := add.Build(parseExpr(t, "1"))
	require.NoError(t, err)
	assert.Equal(t, "lambda y: 1 + y", printer.String(result))
}

func Test_Macro_BodyUnchanged(t *testing.T) {
	f := newMacro(t, "f", "lambda x: [x, x]")
	//
	first, err := f.Build(parseExpr(t, "1"))
	require.NoError(t, err)
	// Modifying an expansion does not affect the macro
	first.(*ast.List).Elts[0] = parseExpr(t, "2")
	//
	second, err := f.Build(parseExpr(t, "1"))
	require.NoError(t, err)
	assert.Equal(t, "[1, 1]", printer.String(second))
	assert.Equal(t, "lambda x: [x, x]", printer.String(f.Lambda()))
}

func Test_Macro_ShapeError(t *testing.T) {
	for _, src := range []string{"f(1)", "(lambda x: x)(1)", "x", "1 + 2", "[lambda x: x]"} {
		t.Run(src, func(t *testing.T) {
			_, err := NewMacro("f", src)
			//
			var shape *ShapeError
			assert.True(t, errors.As(err, &shape), "expected shape error, got %v", err)
		})
	}
}

func Test_Macro_ParseError(t *testing.T) {
	for _, src := range []string{"lambda x: )", "lambda x:", "", "lambda x, x: x"} {
		t.Run(src, func(t *testing.T) {
			_, err := NewMacro("f", src)
			//
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected parse error, got %v", err)
			assert.NotEmpty(t, perr.Errors)
		})
	}
}

// ===================================================================
// Hygiene
// ===================================================================

func Test_Rename_01(t *testing.T) {
	checkRename(t, "lambda x: (z := x ** 2, z + x + 1)[-1]",
		"lambda x: (z$f := x ** 2, z$f + x + 1)[-1]")
}

func Test_Rename_02(t *testing.T) {
	// Parameters of nested lambdas shadow renamed variables
	checkRename(t, "lambda x: (z := x, (lambda z: z)(1), z)",
		"lambda x: (z$f := x, (lambda z: z)(1), z$f)")
}

func Test_Rename_03(t *testing.T) {
	// Uses preceding an assignment are left alone
	checkRename(t, "lambda x: (z, z := x, z)", "lambda x: (z, z$f := x, z$f)")
}

func Test_Rename_04(t *testing.T) {
	// The value of an assignment is renamed before its target is bound
	checkRename(t, "lambda x: (z := z + 1, z)", "lambda x: (z$f := z + 1, z$f)")
}

func Test_Rename_05(t *testing.T) {
	// Assignments to parameters
	checkRename(t, "lambda x: (x := x + 1, x)", "lambda x: (x$f := x + 1, x$f)")
}

func Test_Rename_06(t *testing.T) {
	// Variables assigned within nested lambdas are local to them
	checkRename(t, "lambda x: (lambda y: (w := y))(x) + w", "lambda x: (lambda y: (w$f := y))(x) + w")
}

func Test_Rename_07(t *testing.T) {
	// Free names and parameters are unchanged
	checkRename(t, "lambda x, y: g(x, y, k)", "lambda x, y: g(x, y, k)")
}

func Test_Rename_Original(t *testing.T) {
	lambda := parseExpr(t, "lambda x: (z := x)").(*ast.Lambda)
	renamed := Rename("f", lambda)
	//
	assert.Equal(t, "lambda x: (z := x)", printer.String(lambda))
	assert.Equal(t, "lambda x: (z$f := x)", printer.String(renamed))
	assert.Equal(t, "z$f", FreshName("f", "z"))
	assert.Equal(t, "z$f$3", InstanceName(FreshName("f", "z"), 3))
}

func Test_Rename_Instances(t *testing.T) {
	m, err := NewHygienicMacro("f", "lambda x: (z := x, (lambda y: (w := y))(z), k)")
	require.NoError(t, err)
	// Built directly, fresh names are those of the body
	result, err := m.Build(ast.NewName("a", ast.Read))
	require.NoError(t, err)
	assert.Equal(t, "(z$f := a, (lambda y: (w$f := y))(z$f), k)", printer.String(result))
	// Each numbered expansion has its own variables, but arguments are untouched
	result, err = m.instantiate(2, ast.NewName("z$f$1", ast.Read))
	require.NoError(t, err)
	assert.Equal(t, "(z$f$2 := z$f$1, (lambda y: (w$f$2 := y))(z$f$2), k)", printer.String(result))
}

// ===================================================================
// Helpers
// ===================================================================

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	//
	expr, errs := parser.ParseExpressionString(src)
	require.Empty(t, errs, "failed parsing %q", src)
	//
	return expr
}

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	//
	module, errs := parser.ParseModuleString(src)
	require.Empty(t, errs, "failed parsing %q", src)
	//
	return module
}

func newMacro(t *testing.T, name string, src string) *Macro {
	t.Helper()
	//
	m, err := NewMacro(name, src)
	require.NoError(t, err)
	//
	return m
}

func checkRename(t *testing.T, src string, expected string) {
	t.Helper()
	//
	renamed := Rename("f", parseExpr(t, src).(*ast.Lambda))
	actual := printer.String(renamed)
	//
	if actual != expected {
		t.Errorf("expected %s, got %s\n%# v", expected, actual, pretty.Formatter(renamed))
	}
}
