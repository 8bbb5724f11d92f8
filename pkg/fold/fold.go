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
	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/lang/interp"
	log "github.com/sirupsen/logrus"
)

// Node folds constant additions throughout a given tree, returning a new tree
// (i.e. the given tree is not modified).  Sums of integer constants are
// combined wherever they occur in a chain of additions, such that "1 + x + 2"
// becomes "3 + x".  Since concatenation is not commutative, string constants
// are only combined when adjacent, such that "x + 'a' + 'b'" becomes
// "x + 'ab'".  Constants of different types are never combined.
func Node(node ast.Node) ast.Node {
	var f folder
	//
	result, err := ast.Rewrite(node.Clone(), f.rewrite)
	// Folding only ever replaces expressions with expressions
	if err != nil {
		panic(err)
	}
	//
	log.Debugf("folded %d constant addition(s)", f.folds)
	//
	return result
}

// Expr folds constant additions within an expression.
func Expr(expr ast.Expr) ast.Expr {
	return Node(expr).(ast.Expr)
}

// Module folds constant additions within every statement of a module.
func Module(module *ast.Module) *ast.Module {
	return Node(module).(*ast.Module)
}

type folder struct {
	folds uint
}

func (f *folder) rewrite(node ast.Node) (ast.Node, error) {
	binop, ok := node.(*ast.BinOp)
	if !ok || binop.Op != ast.ADD {
		return ast.RewriteChildren(node, f.rewrite)
	}
	// Fold operands first
	if _, err := ast.RewriteChildren(binop, f.rewrite); err != nil {
		return nil, err
	}
	//
	rhs, ok := binop.Right.(*ast.Constant)
	if !ok {
		return binop, nil
	}
	//
	switch lhs := binop.Left.(type) {
	case *ast.Constant:
		// c1 + c2 ==> c
		if c := f.add(lhs, rhs); c != nil {
			return c, nil
		}
	case *ast.BinOp:
		if lhs.Op != ast.ADD {
			break
		}
		// (x + c1) + c2 ==> x + c
		if lr, ok := lhs.Right.(*ast.Constant); ok {
			if c := f.add(lr, rhs); c != nil {
				return ast.NewBinOp(lhs.Left, ast.ADD, c), nil
			}
		}
		// (c1 + x) + c2 ==> c + x, for integers only
		if ll, ok := lhs.Left.(*ast.Constant); ok && isInt(ll) && isInt(rhs) {
			if c := f.add(ll, rhs); c != nil {
				return ast.NewBinOp(c, ast.ADD, lhs.Right), nil
			}
		}
	}
	//
	return binop, nil
}

// Add two constants of the same type, returning nil if they cannot be added.
func (f *folder) add(lhs *ast.Constant, rhs *ast.Constant) *ast.Constant {
	if !sameType(lhs, rhs) {
		return nil
	}
	//
	value, err := interp.BinaryOperation(ast.ADD, lhs.Value, rhs.Value)
	if err != nil {
		return nil
	}
	//
	f.folds++
	//
	return ast.NewConstant(value)
}

func sameType(lhs *ast.Constant, rhs *ast.Constant) bool {
	switch lhs.Value.(type) {
	case int64:
		return isInt(rhs)
	case string:
		_, ok := rhs.Value.(string)
		return ok
	default:
		return false
	}
}

func isInt(c *ast.Constant) bool {
	_, ok := c.Value.(int64)
	return ok
}
