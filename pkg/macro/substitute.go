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
	"github.com/consensys/go-sublambda/pkg/lang/ast"
)

// Substitute replaces every read of a name which is a key in the mapping with
// the corresponding tree.  Assignment targets and unmapped names are left as
// they are.  The given tree is rewritten in place, and replacement trees are
// spliced without copying.  Hence, callers must own the tree exclusively and
// must not reuse replacements elsewhere.
func Substitute(mapping map[string]ast.Expr, node ast.Node) ast.Node {
	return substitute(mapping, node, func(e ast.Expr) ast.Expr { return e })
}

// Substitute using a given function to obtain the tree spliced in at each
// occurrence of a mapped name.
func substitute(mapping map[string]ast.Expr, node ast.Node, splice func(ast.Expr) ast.Expr) ast.Node {
	var rewriter ast.Rewriter
	//
	rewriter = func(node ast.Node) (ast.Node, error) {
		if name, ok := node.(*ast.Name); ok {
			if replacement, ok := mapping[name.Id]; ok && name.Ctx == ast.Read {
				return splice(replacement), nil
			}
			//
			return name, nil
		}
		//
		return ast.RewriteChildren(node, rewriter)
	}
	// A substitution never fails, since replacements are always expressions
	// and targets are never replaced.
	result, err := ast.Rewrite(node, rewriter)
	if err != nil {
		panic(err)
	}
	//
	return result
}
