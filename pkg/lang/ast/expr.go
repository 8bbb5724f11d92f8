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

// Name represents an identifier, which is either read from (e.g. "x + 1") or
// written to (e.g. "x = 1" or "(x := 1)").
type Name struct {
	Id  string
	Ctx Context
}

// NewName constructs a new identifier in a given context.
func NewName(id string, ctx Context) *Name {
	return &Name{id, ctx}
}

// Clone implementation for Node interface.
func (e *Name) Clone() Node { return &Name{e.Id, e.Ctx} }

// CloneName produces a copy of a given identifier which retains its concrete
// type.
func (e *Name) CloneName() *Name { return &Name{e.Id, e.Ctx} }

// Constant represents a literal value.  The value is one of int64, string,
// bool or nil (i.e. None).
type Constant struct {
	Value any
}

// NewConstant constructs a new literal.
func NewConstant(value any) *Constant {
	return &Constant{value}
}

// Clone implementation for Node interface.
func (e *Constant) Clone() Node { return &Constant{e.Value} }

// BinOp represents an arithmetic operation over two operands.
type BinOp struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// NewBinOp constructs a new binary operation.
func NewBinOp(left Expr, op BinaryOp, right Expr) *BinOp {
	return &BinOp{op, left, right}
}

// Clone implementation for Node interface.
func (e *BinOp) Clone() Node { return &BinOp{e.Op, cloneExpr(e.Left), cloneExpr(e.Right)} }

// UnaryOp represents a prefix operation over a single operand.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Expr
}

// Clone implementation for Node interface.
func (e *UnaryOp) Clone() Node { return &UnaryOp{e.Op, cloneExpr(e.Operand)} }

// Compare represents a comparison between two operands.
type Compare struct {
	Op    CmpOp
	Left  Expr
	Right Expr
}

// Clone implementation for Node interface.
func (e *Compare) Clone() Node { return &Compare{e.Op, cloneExpr(e.Left), cloneExpr(e.Right)} }

// BoolOp represents a short-circuiting "and" or "or".
type BoolOp struct {
	Op    LogicalOp
	Left  Expr
	Right Expr
}

// Clone implementation for Node interface.
func (e *BoolOp) Clone() Node { return &BoolOp{e.Op, cloneExpr(e.Left), cloneExpr(e.Right)} }

// Call represents a function invocation with zero or more positional
// arguments, followed by zero or more keyword arguments.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// NewCall constructs a call with positional arguments only.
func NewCall(fn Expr, args ...Expr) *Call {
	return &Call{fn, args, nil}
}

// Clone implementation for Node interface.
func (e *Call) Clone() Node {
	var keywords []*Keyword
	//
	if e.Keywords != nil {
		keywords = make([]*Keyword, len(e.Keywords))
		for i, k := range e.Keywords {
			keywords[i] = k.Clone().(*Keyword)
		}
	}
	//
	return &Call{cloneExpr(e.Func), cloneExprs(e.Args), keywords}
}

// Keyword represents a named argument "arg=value" of a call.
type Keyword struct {
	Arg   string
	Value Expr
}

// Clone implementation for Node interface.
func (e *Keyword) Clone() Node { return &Keyword{e.Arg, cloneExpr(e.Value)} }

// Lambda represents an anonymous function "lambda x, y: body".
type Lambda struct {
	Params []string
	Body   Expr
}

// Clone implementation for Node interface.
func (e *Lambda) Clone() Node { return &Lambda{cloneStrings(e.Params), cloneExpr(e.Body)} }

// NamedExpr represents an inline assignment "(target := value)", which binds
// the target and evaluates to the assigned value.
type NamedExpr struct {
	Target *Name
	Value  Expr
}

// Clone implementation for Node interface.
func (e *NamedExpr) Clone() Node { return &NamedExpr{e.Target.CloneName(), cloneExpr(e.Value)} }

// Tuple represents an immutable sequence "(a, b)".
type Tuple struct {
	Elts []Expr
}

// Clone implementation for Node interface.
func (e *Tuple) Clone() Node { return &Tuple{cloneExprs(e.Elts)} }

// List represents a mutable sequence "[a, b]".
type List struct {
	Elts []Expr
}

// Clone implementation for Node interface.
func (e *List) Clone() Node { return &List{cloneExprs(e.Elts)} }

// Subscript represents an indexing operation "value[index]".
type Subscript struct {
	Value Expr
	Index Expr
}

// Clone implementation for Node interface.
func (e *Subscript) Clone() Node { return &Subscript{cloneExpr(e.Value), cloneExpr(e.Index)} }

func (*Name) expr()      {}
func (*Constant) expr()  {}
func (*BinOp) expr()     {}
func (*UnaryOp) expr()   {}
func (*Compare) expr()   {}
func (*BoolOp) expr()    {}
func (*Call) expr()      {}
func (*Lambda) expr()    {}
func (*NamedExpr) expr() {}
func (*Tuple) expr()     {}
func (*List) expr()      {}
func (*Subscript) expr() {}
