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
	"fmt"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/lang/parser"
	"github.com/consensys/go-sublambda/pkg/util/source"
)

// Macro is a named anonymous function whose body is substituted in place of
// calls to it.  A macro is immutable once constructed, and can therefore be
// shared between any number of expansions.
type Macro struct {
	name string
	// Formal parameters, in declaration order
	params []string
	// Body into which arguments are substituted.  This is never handed out
	// directly, only copies of it.
	body ast.Expr
	// Names bound within the body by hygienic renaming (empty otherwise).
	fresh map[string]bool
}

// NewMacro constructs a macro from the source text of a lambda expression.
// This fails with a ParseError if the text is not a valid expression, or a
// ShapeError if it is not a lambda.
func NewMacro(name string, src string) (*Macro, error) {
	lambda, err := parseLambda(name, src)
	if err != nil {
		return nil, err
	}
	//
	return FromLambda(name, lambda), nil
}

// FromLambda constructs a macro from a lambda.  Only the outermost lambda's
// parameters determine the arity of the macro.  The lambda is copied, hence
// subsequent changes to it do not affect the macro.
func FromLambda(name string, lambda *ast.Lambda) *Macro {
	params := make([]string, len(lambda.Params))
	copy(params, lambda.Params)
	//
	return &Macro{name, params, lambda.Body.Clone().(ast.Expr), nil}
}

// Name returns the name of this macro.
func (m *Macro) Name() string {
	return m.name
}

// Params returns the formal parameters of this macro.
func (m *Macro) Params() []string {
	return m.params
}

// Arity returns the number of arguments this macro expects.
func (m *Macro) Arity() int {
	return len(m.params)
}

// Lambda returns a fresh lambda expression equivalent to this macro.
func (m *Macro) Lambda() *ast.Lambda {
	params := make([]string, len(m.params))
	copy(params, m.params)
	//
	return &ast.Lambda{Params: params, Body: m.body.Clone().(ast.Expr)}
}

// Build the expansion of this macro for a given set of arguments, whose number
// must match the arity of the macro.  The result is a fresh copy of the body
// with every read of a parameter replaced by its argument.  Arguments are
// spliced as is at their first occurrence, and copied at any subsequent
// occurrence, such that the result never shares structure with itself or with
// any previous expansion.  Fresh names of a hygienic macro are left as they
// appear in its body.
func (m *Macro) Build(args ...ast.Expr) (ast.Expr, error) {
	return m.instantiate(0, args...)
}

// Build an expansion of this macro, where a non-zero instance qualifies every
// fresh name of the body with that number (see InstanceName).  Qualification
// happens before substitution, hence names within the arguments are untouched.
func (m *Macro) instantiate(instance uint, args ...ast.Expr) (ast.Expr, error) {
	if len(args) != len(m.params) {
		return nil, &ArityError{m.name, len(m.params), len(args), nil}
	}
	//
	var (
		body    = m.body.Clone()
		mapping = make(map[string]ast.Expr, len(args))
		used    = make(map[ast.Expr]bool, len(args))
	)
	//
	for i, param := range m.params {
		mapping[param] = args[i]
	}
	//
	if instance != 0 && len(m.fresh) > 0 {
		body = qualify(body, m.fresh, instance)
	}
	//
	result := substitute(mapping, body, func(arg ast.Expr) ast.Expr {
		if used[arg] {
			return arg.Clone().(ast.Expr)
		}
		//
		used[arg] = true
		//
		return arg
	})
	//
	return result.(ast.Expr), nil
}

func (m *Macro) String() string {
	return fmt.Sprintf("%s(%s)", m.name, strings.Join(m.params, ", "))
}

// Parse the source text of a macro, which must be exactly one lambda.
func parseLambda(name string, src string) (*ast.Lambda, error) {
	srcfile := source.NewSourceString(name, src)
	//
	expr, _, errs := parser.ParseExpression(srcfile)
	if len(errs) > 0 {
		return nil, &ParseError{errs}
	}
	//
	lambda, ok := expr.(*ast.Lambda)
	if !ok {
		return nil, &ShapeError{name, describe(expr)}
	}
	//
	return lambda, nil
}

// Describe the kind of an expression for error reporting.
func describe(expr ast.Expr) string {
	switch expr.(type) {
	case *ast.Call:
		return "call"
	case *ast.Name:
		return "name"
	case *ast.Constant:
		return "constant"
	case *ast.Tuple:
		return "tuple"
	case *ast.List:
		return "list"
	case *ast.NamedExpr:
		return "assignment expression"
	case *ast.Subscript:
		return "subscript"
	default:
		return "operator"
	}
}
