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

// Node represents any node within a host syntax tree.  A node is exclusively
// owned by whichever tree currently holds it, hence nodes must never be shared
// between two positions of a tree.  Clone should be used to obtain a copy which
// can be placed elsewhere.
type Node interface {
	// Clone produces a deep copy of this node, such that no part of the
	// resulting tree is shared with the original.
	Clone() Node
}

// Expr represents an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmt()
}

// Module is the root of a parsed source file, consisting of a sequence of
// statements executed in order.
type Module struct {
	Body []Stmt
}

// Clone implementation for Node interface.
func (p *Module) Clone() Node {
	return &Module{cloneStmts(p.Body)}
}

// Context determines whether an identifier is being read from or written to.
type Context uint8

const (
	// Read indicates an identifier whose value is being loaded.
	Read Context = iota
	// Write indicates an identifier which is the target of an assignment.
	Write
)

func (c Context) String() string {
	if c == Write {
		return "write"
	}
	//
	return "read"
}

// BinaryOp identifies an arithmetic operator.
type BinaryOp uint8

const (
	// ADD represents "+"
	ADD BinaryOp = iota
	// SUB represents "-"
	SUB
	// MUL represents "*"
	MUL
	// FLOORDIV represents "//"
	FLOORDIV
	// MOD represents "%"
	MOD
	// POW represents "**"
	POW
)

var binaryOpStrings = [...]string{"+", "-", "*", "//", "%", "**"}

func (op BinaryOp) String() string {
	return binaryOpStrings[op]
}

// UnaryOperator identifies a prefix operator.
type UnaryOperator uint8

const (
	// NEG represents "-"
	NEG UnaryOperator = iota
	// PLUS represents "+"
	PLUS
	// NOT represents "not"
	NOT
)

var unaryOpStrings = [...]string{"-", "+", "not "}

func (op UnaryOperator) String() string {
	return unaryOpStrings[op]
}

// CmpOp identifies a comparison operator.
type CmpOp uint8

const (
	// EQ represents "=="
	EQ CmpOp = iota
	// NEQ represents "!="
	NEQ
	// LT represents "<"
	LT
	// LTEQ represents "<="
	LTEQ
	// GT represents ">"
	GT
	// GTEQ represents ">="
	GTEQ
)

var cmpOpStrings = [...]string{"==", "!=", "<", "<=", ">", ">="}

func (op CmpOp) String() string {
	return cmpOpStrings[op]
}

// LogicalOp identifies a short-circuiting boolean connective.
type LogicalOp uint8

const (
	// AND represents "and"
	AND LogicalOp = iota
	// OR represents "or"
	OR
)

func (op LogicalOp) String() string {
	if op == OR {
		return "or"
	}
	//
	return "and"
}

func cloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	//
	return e.Clone().(Expr)
}

func cloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	//
	nexprs := make([]Expr, len(exprs))
	//
	for i, e := range exprs {
		nexprs[i] = cloneExpr(e)
	}
	//
	return nexprs
}

func cloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	//
	nstmts := make([]Stmt, len(stmts))
	//
	for i, s := range stmts {
		nstmts[i] = s.Clone().(Stmt)
	}
	//
	return nstmts
}

func cloneStrings(strs []string) []string {
	if strs == nil {
		return nil
	}
	//
	return append([]string{}, strs...)
}
