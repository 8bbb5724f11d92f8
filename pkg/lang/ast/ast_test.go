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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Clone_Independent(t *testing.T) {
	original := &Module{Body: []Stmt{
		&FunctionDef{Name: "f", Params: []string{"x"}, Body: []Stmt{
			&Assign{Target: NewName("y", Write), Value: NewBinOp(NewName("x", Read), ADD, NewConstant(int64(1)))},
			&Return{Value: NewCall(NewName("g", Read), NewName("y", Read))},
		}},
	}}
	//
	clone := original.Clone().(*Module)
	require.Equal(t, original, clone)
	// Modify the clone throughout
	fn := clone.Body[0].(*FunctionDef)
	fn.Params[0] = "z"
	fn.Body[0].(*Assign).Target.Id = "w"
	fn.Body[0].(*Assign).Value.(*BinOp).Left = NewName("z", Read)
	fn.Body[1].(*Return).Value.(*Call).Args[0] = NewConstant(nil)
	// The original is unaffected
	orig := original.Body[0].(*FunctionDef)
	assert.Equal(t, []string{"x"}, orig.Params)
	assert.Equal(t, "y", orig.Body[0].(*Assign).Target.Id)
	assert.Equal(t, NewName("x", Read), orig.Body[0].(*Assign).Value.(*BinOp).Left)
	assert.Equal(t, NewName("y", Read), orig.Body[1].(*Return).Value.(*Call).Args[0])
}

func Test_Clone_Nil(t *testing.T) {
	ret := &Return{}
	assert.Equal(t, ret, ret.Clone())
	//
	call := &Call{Func: NewName("f", Read), Args: []Expr{}}
	assert.Equal(t, call, call.Clone())
}

func Test_Clone_Pass(t *testing.T) {
	// Distinct statements must have distinct identities
	p1, p2 := &Pass{}, &Pass{}
	assert.NotSame(t, p1, p2)
	assert.NotSame(t, p1, p1.Clone().(*Pass))
}

func Test_RewriteChildren(t *testing.T) {
	// (x + y) * f(x, k=x)
	expr := NewBinOp(
		NewBinOp(NewName("x", Read), ADD, NewName("y", Read)),
		MUL,
		&Call{Func: NewName("f", Read), Args: []Expr{NewName("x", Read)},
			Keywords: []*Keyword{{Arg: "k", Value: NewName("x", Read)}}})
	//
	result, err := Rewrite(expr, renameX)
	require.NoError(t, err)
	//
	expected := NewBinOp(
		NewBinOp(NewName("z", Read), ADD, NewName("y", Read)),
		MUL,
		&Call{Func: NewName("f", Read), Args: []Expr{NewName("z", Read)},
			Keywords: []*Keyword{{Arg: "k", Value: NewName("z", Read)}}})
	// Rewriting happens in place
	assert.Same(t, expr, result)
	assert.Equal(t, expected, result)
}

func Test_RewriteChildren_Statements(t *testing.T) {
	module := &Module{Body: []Stmt{
		&Assign{Target: NewName("x", Write), Value: NewName("x", Read)},
		&If{Test: NewName("x", Read), Body: []Stmt{&Pass{}}, Orelse: []Stmt{
			&While{Test: NewName("x", Read), Body: []Stmt{&ExprStmt{Value: NewName("x", Read)}}},
		}},
	}}
	//
	_, err := Rewrite(module, renameX)
	require.NoError(t, err)
	//
	assign := module.Body[0].(*Assign)
	// Targets are visited too, but only reads are renamed here
	assert.Equal(t, "x", assign.Target.Id)
	assert.Equal(t, "z", assign.Value.(*Name).Id)
	//
	loop := module.Body[1].(*If).Orelse[0].(*While)
	assert.Equal(t, "z", loop.Test.(*Name).Id)
	assert.Equal(t, "z", loop.Body[0].(*ExprStmt).Value.(*Name).Id)
}

func Test_RewriteChildren_Error(t *testing.T) {
	var (
		visited []string
		stop    = errors.New("stop")
	)
	//
	var fn Rewriter
	fn = func(node Node) (Node, error) {
		if n, ok := node.(*Name); ok {
			visited = append(visited, n.Id)
			//
			if n.Id == "b" {
				return nil, stop
			}
			//
			return n, nil
		}
		//
		return RewriteChildren(node, fn)
	}
	//
	expr := &Tuple{Elts: []Expr{NewName("a", Read), NewName("b", Read), NewName("c", Read)}}
	_, err := Rewrite(expr, fn)
	//
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a", "b"}, visited)
}

func Test_Children(t *testing.T) {
	x, y := NewName("x", Write), NewConstant(int64(1))
	//
	assert.Equal(t, []Node{x, y}, Children(&NamedExpr{Target: x, Value: y}))
	assert.Empty(t, Children(NewConstant(nil)))
	assert.Empty(t, Children(&Return{}))
	//
	kw := &Keyword{Arg: "k", Value: y}
	call := &Call{Func: x, Args: []Expr{y}, Keywords: []*Keyword{kw}}
	assert.Equal(t, []Node{x, y, kw}, Children(call))
}

func Test_Inspect(t *testing.T) {
	var names []string
	// lambda a: a + (lambda b: b)(c)
	expr := &Lambda{Params: []string{"a"}, Body: NewBinOp(
		NewName("a", Read), ADD,
		NewCall(&Lambda{Params: []string{"b"}, Body: NewName("b", Read)}, NewName("c", Read)))}
	// Collect names, but skip over nested lambdas
	Inspect(expr, func(node Node) bool {
		switch n := node.(type) {
		case *Name:
			names = append(names, n.Id)
		case *Lambda:
			return n == expr
		}
		//
		return true
	})
	//
	assert.Equal(t, []string{"a", "c"}, names)
}

func Test_OperatorStrings(t *testing.T) {
	assert.Equal(t, "//", FLOORDIV.String())
	assert.Equal(t, "**", POW.String())
	assert.Equal(t, "not ", NOT.String())
	assert.Equal(t, ">=", GTEQ.String())
	assert.Equal(t, "and", AND.String())
	assert.Equal(t, "write", Write.String())
}

// Rename reads of "x" to "z".
func renameX(node Node) (Node, error) {
	if n, ok := node.(*Name); ok {
		if n.Id == "x" && n.Ctx == Read {
			return NewName("z", Read), nil
		}
		//
		return n, nil
	}
	//
	return RewriteChildren(node, renameX)
}
