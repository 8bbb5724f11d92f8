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

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/util/source"
)

// Expander rewrites calls to registered macros into their expansions.  A call
// is expanded only when its callee is a plain name being read, that name is
// registered and no keyword arguments are given.  Every other call is left
// as is, though its children are still visited.  An expander performs exactly
// one traversal: arguments are expanded before being substituted, but the
// result of a substitution is never itself expanded again.  Expansions are
// numbered in the order they complete, and the fresh names of each expansion
// of a hygienic macro carry its number.
type Expander struct {
	macros map[string]*Macro
	// Source map for the tree being expanded (optional).  New nodes are
	// attributed to the call they replace.
	srcmap *source.Map[ast.Node]
	// Number of calls expanded so far
	expansions uint
}

// NewExpander constructs an expander for a given set of macros, along with an
// optional source map (which may be nil).
func NewExpander(macros map[string]*Macro, srcmap *source.Map[ast.Node]) *Expander {
	return &Expander{macros, srcmap, 0}
}

// Expansions returns the number of calls which have been expanded.
func (e *Expander) Expansions() uint {
	return e.expansions
}

// Expand all eligible calls within a given tree, which is modified in place.
// If any expansion fails, the whole expansion fails and the tree should be
// discarded.
func (e *Expander) Expand(node ast.Node) (ast.Node, error) {
	return ast.Rewrite(node, e.rewrite)
}

func (e *Expander) rewrite(node ast.Node) (ast.Node, error) {
	if call, ok := node.(*ast.Call); ok {
		if m := e.match(call); m != nil {
			return e.expand(m, call)
		}
	}
	//
	return ast.RewriteChildren(node, e.rewrite)
}

// Determine the macro invoked by a given call, or nil if the call should not
// be expanded.
func (e *Expander) match(call *ast.Call) *Macro {
	name, ok := call.Func.(*ast.Name)
	//
	if !ok || name.Ctx != ast.Read || len(call.Keywords) > 0 {
		return nil
	}
	//
	return e.macros[name.Id]
}

func (e *Expander) expand(m *Macro, call *ast.Call) (ast.Node, error) {
	args := make([]ast.Expr, len(call.Args))
	// Expand arguments first
	for i, arg := range call.Args {
		expanded, err := ast.Rewrite(arg, e.rewrite)
		if err != nil {
			return nil, err
		}
		//
		args[i] = expanded.(ast.Expr)
	}
	//
	result, err := m.instantiate(e.expansions+1, args...)
	//
	var arity *ArityError
	if errors.As(err, &arity) && e.srcmap != nil && e.srcmap.Has(call) {
		arity.Location = e.srcmap.SyntaxError(call, arity.Message())
	}
	//
	if err != nil {
		return nil, err
	}
	//
	e.expansions++
	e.relocate(call, result)
	//
	return result, nil
}

// Attribute any node of an expansion which has no location to the call being
// replaced.  Nodes originating from the arguments keep their own locations.
func (e *Expander) relocate(call *ast.Call, result ast.Node) {
	if e.srcmap == nil || !e.srcmap.Has(call) {
		return
	}
	//
	ast.Inspect(result, func(n ast.Node) bool {
		e.srcmap.Copy(call, n)
		return true
	})
}
