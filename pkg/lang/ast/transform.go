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
package ast

import "fmt"

// Rewriter is applied to a node and returns the node which should take its
// place in the enclosing tree (which may be the node itself).  A rewriter
// typically handles the node kinds it is interested in, and falls back to
// RewriteChildren for everything else.
type Rewriter func(Node) (Node, error)

// Rewrite applies a rewriter to the root of a tree.  This is simply a
// convenience which makes call sites read naturally.
func Rewrite(node Node, fn Rewriter) (Node, error) {
	return fn(node)
}

// RewriteChildren applies a given rewriter to every immediate child of a node,
// replacing each child in place with the result.  This is the default
// behaviour of a traversal for node kinds which a rewriter does not handle
// explicitly.  Children are visited in source order.  An error from the
// rewriter aborts the traversal immediately.
func RewriteChildren(node Node, fn Rewriter) (Node, error) {
	var err error
	//
	switch n := node.(type) {
	case *Module:
		n.Body, err = rewriteStmts(n.Body, fn)
	case *FunctionDef:
		n.Body, err = rewriteStmts(n.Body, fn)
	case *Return:
		n.Value, err = rewriteExpr(n.Value, fn)
	case *Assign:
		if n.Target, err = rewriteName(n.Target, fn); err == nil {
			n.Value, err = rewriteExpr(n.Value, fn)
		}
	case *ExprStmt:
		n.Value, err = rewriteExpr(n.Value, fn)
	case *If:
		if n.Test, err = rewriteExpr(n.Test, fn); err != nil {
			return nil, err
		} else if n.Body, err = rewriteStmts(n.Body, fn); err != nil {
			return nil, err
		}
		//
		n.Orelse, err = rewriteStmts(n.Orelse, fn)
	case *While:
		if n.Test, err = rewriteExpr(n.Test, fn); err == nil {
			n.Body, err = rewriteStmts(n.Body, fn)
		}
	case *Pass, *Name, *Constant:
		// leaves
	case *BinOp:
		if n.Left, err = rewriteExpr(n.Left, fn); err == nil {
			n.Right, err = rewriteExpr(n.Right, fn)
		}
	case *UnaryOp:
		n.Operand, err = rewriteExpr(n.Operand, fn)
	case *Compare:
		if n.Left, err = rewriteExpr(n.Left, fn); err == nil {
			n.Right, err = rewriteExpr(n.Right, fn)
		}
	case *BoolOp:
		if n.Left, err = rewriteExpr(n.Left, fn); err == nil {
			n.Right, err = rewriteExpr(n.Right, fn)
		}
	case *Call:
		if n.Func, err = rewriteExpr(n.Func, fn); err != nil {
			return nil, err
		} else if n.Args, err = rewriteExprs(n.Args, fn); err != nil {
			return nil, err
		}
		//
		n.Keywords, err = rewriteKeywords(n.Keywords, fn)
	case *Keyword:
		n.Value, err = rewriteExpr(n.Value, fn)
	case *Lambda:
		n.Body, err = rewriteExpr(n.Body, fn)
	case *NamedExpr:
		if n.Target, err = rewriteName(n.Target, fn); err == nil {
			n.Value, err = rewriteExpr(n.Value, fn)
		}
	case *Tuple:
		n.Elts, err = rewriteExprs(n.Elts, fn)
	case *List:
		n.Elts, err = rewriteExprs(n.Elts, fn)
	case *Subscript:
		if n.Value, err = rewriteExpr(n.Value, fn); err == nil {
			n.Index, err = rewriteExpr(n.Index, fn)
		}
	default:
		panic(fmt.Sprintf("unknown node encountered (%T)", node))
	}
	//
	if err != nil {
		return nil, err
	}
	//
	return node, nil
}

// Children returns the immediate children of a given node in source order.
// Identifiers in target position are included.
func Children(node Node) []Node {
	var children []Node
	//
	switch n := node.(type) {
	case *Module:
		children = appendStmts(children, n.Body)
	case *FunctionDef:
		children = appendStmts(children, n.Body)
	case *Return:
		children = appendExprs(children, n.Value)
	case *Assign:
		children = appendExprs(children, n.Target, n.Value)
	case *ExprStmt:
		children = appendExprs(children, n.Value)
	case *If:
		children = appendExprs(children, n.Test)
		children = appendStmts(children, n.Body)
		children = appendStmts(children, n.Orelse)
	case *While:
		children = appendExprs(children, n.Test)
		children = appendStmts(children, n.Body)
	case *Pass, *Name, *Constant:
		// leaves
	case *BinOp:
		children = appendExprs(children, n.Left, n.Right)
	case *UnaryOp:
		children = appendExprs(children, n.Operand)
	case *Compare:
		children = appendExprs(children, n.Left, n.Right)
	case *BoolOp:
		children = appendExprs(children, n.Left, n.Right)
	case *Call:
		children = appendExprs(children, n.Func)
		children = appendExprs(children, n.Args...)
		//
		for _, k := range n.Keywords {
			children = append(children, k)
		}
	case *Keyword:
		children = appendExprs(children, n.Value)
	case *Lambda:
		children = appendExprs(children, n.Body)
	case *NamedExpr:
		children = appendExprs(children, n.Target, n.Value)
	case *Tuple:
		children = appendExprs(children, n.Elts...)
	case *List:
		children = appendExprs(children, n.Elts...)
	case *Subscript:
		children = appendExprs(children, n.Value, n.Index)
	default:
		panic(fmt.Sprintf("unknown node encountered (%T)", node))
	}
	//
	return children
}

// Inspect traverses a tree in pre-order, calling fn for every node.  When fn
// returns false, the children of that node are not visited.
func Inspect(node Node, fn func(Node) bool) {
	if fn(node) {
		for _, child := range Children(node) {
			Inspect(child, fn)
		}
	}
}

func rewriteExpr(expr Expr, fn Rewriter) (Expr, error) {
	if expr == nil {
		return nil, nil
	}
	//
	node, err := fn(expr)
	if err != nil {
		return nil, err
	}
	//
	if e, ok := node.(Expr); ok {
		return e, nil
	}
	//
	return nil, fmt.Errorf("cannot replace expression with %T", node)
}

func rewriteName(name *Name, fn Rewriter) (*Name, error) {
	node, err := fn(name)
	if err != nil {
		return nil, err
	}
	//
	if n, ok := node.(*Name); ok {
		return n, nil
	}
	//
	return nil, fmt.Errorf("cannot replace assignment target with %T", node)
}

func rewriteExprs(exprs []Expr, fn Rewriter) ([]Expr, error) {
	var err error
	//
	for i, e := range exprs {
		if exprs[i], err = rewriteExpr(e, fn); err != nil {
			return nil, err
		}
	}
	//
	return exprs, nil
}

func rewriteKeywords(keywords []*Keyword, fn Rewriter) ([]*Keyword, error) {
	for i, k := range keywords {
		node, err := fn(k)
		if err != nil {
			return nil, err
		}
		//
		kw, ok := node.(*Keyword)
		if !ok {
			return nil, fmt.Errorf("cannot replace keyword argument with %T", node)
		}
		//
		keywords[i] = kw
	}
	//
	return keywords, nil
}

func rewriteStmts(stmts []Stmt, fn Rewriter) ([]Stmt, error) {
	for i, s := range stmts {
		node, err := fn(s)
		if err != nil {
			return nil, err
		}
		//
		stmt, ok := node.(Stmt)
		if !ok {
			return nil, fmt.Errorf("cannot replace statement with %T", node)
		}
		//
		stmts[i] = stmt
	}
	//
	return stmts, nil
}

func appendExprs(nodes []Node, exprs ...Expr) []Node {
	for _, e := range exprs {
		if e != nil {
			nodes = append(nodes, e)
		}
	}
	//
	return nodes
}

func appendStmts(nodes []Node, stmts []Stmt) []Node {
	for _, s := range stmts {
		nodes = append(nodes, s)
	}
	//
	return nodes
}
