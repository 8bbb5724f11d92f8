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

// FunctionDef represents a named function declaration.
type FunctionDef struct {
	Name   string
	Params []string
	Body   []Stmt
}

// Clone implementation for Node interface.
func (s *FunctionDef) Clone() Node {
	return &FunctionDef{s.Name, cloneStrings(s.Params), cloneStmts(s.Body)}
}

// Return represents a return statement, where Value is nil for a bare
// "return".
type Return struct {
	Value Expr
}

// Clone implementation for Node interface.
func (s *Return) Clone() Node { return &Return{cloneExpr(s.Value)} }

// Assign represents a plain assignment "target = value".
type Assign struct {
	Target *Name
	Value  Expr
}

// Clone implementation for Node interface.
func (s *Assign) Clone() Node { return &Assign{s.Target.CloneName(), cloneExpr(s.Value)} }

// ExprStmt represents an expression evaluated for its effect.
type ExprStmt struct {
	Value Expr
}

// Clone implementation for Node interface.
func (s *ExprStmt) Clone() Node { return &ExprStmt{cloneExpr(s.Value)} }

// If represents a conditional statement.  An "elif" chain is represented by
// nesting an If as the sole statement of Orelse.
type If struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// Clone implementation for Node interface.
func (s *If) Clone() Node { return &If{cloneExpr(s.Test), cloneStmts(s.Body), cloneStmts(s.Orelse)} }

// While represents a loop.
type While struct {
	Test Expr
	Body []Stmt
}

// Clone implementation for Node interface.
func (s *While) Clone() Node { return &While{cloneExpr(s.Test), cloneStmts(s.Body)} }

// Pass represents the empty statement.  Nodes are keyed by address (e.g. in
// source maps), hence this cannot be a zero-sized type.
type Pass struct {
	_ byte
}

// Clone implementation for Node interface.
func (s *Pass) Clone() Node { return &Pass{} }

func (*FunctionDef) stmt() {}
func (*Return) stmt()      {}
func (*Assign) stmt()      {}
func (*ExprStmt) stmt()    {}
func (*If) stmt()          {}
func (*While) stmt()       {}
func (*Pass) stmt()        {}
