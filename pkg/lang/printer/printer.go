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
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
)

// Binding strengths of the various expression forms, from loosest to
// tightest.  An operand whose strength is below that required by its position
// is parenthesised.
const (
	precNamed uint = iota
	precLambda
	precOr
	precAnd
	precNot
	precCompare
	precArith
	precTerm
	precUnary
	precPower
	precPrimary
)

// INDENT is the text used for one level of block indentation.
const INDENT = "    "

// String renders a given node as host source text.  Modules and statements are
// terminated with a newline, expressions are not.
func String(node ast.Node) string {
	var p printer
	//
	switch n := node.(type) {
	case *ast.Module:
		p.writeStmts(n.Body, 0)
	case ast.Stmt:
		p.writeStmt(n, 0)
	case ast.Expr:
		p.writeExpr(n, precNamed)
	case *ast.Keyword:
		p.writeKeyword(n)
	default:
		panic(fmt.Sprintf("unknown node encountered (%T)", node))
	}
	//
	return p.builder.String()
}

type printer struct {
	builder strings.Builder
}

func (p *printer) write(format string, args ...any) {
	fmt.Fprintf(&p.builder, format, args...)
}

func (p *printer) writeStmts(stmts []ast.Stmt, depth int) {
	for _, s := range stmts {
		p.writeStmt(s, depth)
	}
}

func (p *printer) writeStmt(stmt ast.Stmt, depth int) {
	p.builder.WriteString(strings.Repeat(INDENT, depth))
	//
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		p.write("def %s(%s):\n", s.Name, strings.Join(s.Params, ", "))
		p.writeBlock(s.Body, depth+1)
	case *ast.Return:
		p.write("return")
		//
		if s.Value != nil {
			p.write(" ")
			p.writeExpr(s.Value, precLambda)
		}
		//
		p.write("\n")
	case *ast.Assign:
		p.write("%s = ", s.Target.Id)
		p.writeExpr(s.Value, precLambda)
		p.write("\n")
	case *ast.ExprStmt:
		p.writeExpr(s.Value, precNamed)
		p.write("\n")
	case *ast.If:
		p.writeIf(s, "if", depth)
	case *ast.While:
		p.write("while ")
		p.writeExpr(s.Test, precNamed)
		p.write(":\n")
		p.writeBlock(s.Body, depth+1)
	case *ast.Pass:
		p.write("pass\n")
	default:
		panic(fmt.Sprintf("unknown statement encountered (%T)", stmt))
	}
}

func (p *printer) writeIf(s *ast.If, keyword string, depth int) {
	p.write("%s ", keyword)
	p.writeExpr(s.Test, precNamed)
	p.write(":\n")
	p.writeBlock(s.Body, depth+1)
	//
	if len(s.Orelse) == 1 {
		if elif, ok := s.Orelse[0].(*ast.If); ok {
			p.builder.WriteString(strings.Repeat(INDENT, depth))
			p.writeIf(elif, "elif", depth)
			//
			return
		}
	}
	//
	if len(s.Orelse) > 0 {
		p.builder.WriteString(strings.Repeat(INDENT, depth))
		p.write("else:\n")
		p.writeBlock(s.Orelse, depth+1)
	}
}

func (p *printer) writeBlock(stmts []ast.Stmt, depth int) {
	if len(stmts) == 0 {
		p.writeStmt(&ast.Pass{}, depth)
		return
	}
	//
	p.writeStmts(stmts, depth)
}

// Write an expression, parenthesising it if it binds less tightly than the
// given strength.
func (p *printer) writeExpr(expr ast.Expr, strength uint) {
	braces := precedence(expr) < strength
	//
	if braces {
		p.write("(")
	}
	//
	switch e := expr.(type) {
	case *ast.Name:
		p.write("%s", e.Id)
	case *ast.Constant:
		p.write("%s", constant(e.Value))
	case *ast.BinOp:
		p.writeBinOp(e)
	case *ast.UnaryOp:
		p.write("%s", e.Op.String())
		//
		if e.Op == ast.NOT {
			p.writeExpr(e.Operand, precNot)
		} else {
			p.writeExpr(e.Operand, precUnary)
		}
	case *ast.Compare:
		p.writeExpr(e.Left, precArith)
		p.write(" %s ", e.Op.String())
		p.writeExpr(e.Right, precArith)
	case *ast.BoolOp:
		prec := precedence(e)
		p.writeExpr(e.Left, prec)
		p.write(" %s ", e.Op.String())
		p.writeExpr(e.Right, prec+1)
	case *ast.Call:
		p.writeExpr(e.Func, precPrimary)
		p.write("(")
		//
		for i, arg := range e.Args {
			p.writeSeparator(i)
			p.writeExpr(arg, precNamed)
		}
		//
		for i, kw := range e.Keywords {
			p.writeSeparator(i + len(e.Args))
			p.writeKeyword(kw)
		}
		//
		p.write(")")
	case *ast.Lambda:
		if len(e.Params) == 0 {
			p.write("lambda: ")
		} else {
			p.write("lambda %s: ", strings.Join(e.Params, ", "))
		}
		//
		p.writeExpr(e.Body, precLambda)
	case *ast.NamedExpr:
		p.write("%s := ", e.Target.Id)
		p.writeExpr(e.Value, precLambda)
	case *ast.Tuple:
		p.write("(")
		p.writeElements(e.Elts)
		//
		if len(e.Elts) == 1 {
			p.write(",")
		}
		//
		p.write(")")
	case *ast.List:
		p.write("[")
		p.writeElements(e.Elts)
		p.write("]")
	case *ast.Subscript:
		p.writeExpr(e.Value, precPrimary)
		p.write("[")
		p.writeExpr(e.Index, precLambda)
		p.write("]")
	default:
		panic(fmt.Sprintf("unknown expression encountered (%T)", expr))
	}
	//
	if braces {
		p.write(")")
	}
}

func (p *printer) writeBinOp(e *ast.BinOp) {
	prec := precedence(e)
	//
	if e.Op == ast.POW {
		// Right associative, and the exponent may be a unary operation.
		p.writeExpr(e.Left, precPrimary)
		p.write(" ** ")
		p.writeExpr(e.Right, precUnary)
		//
		return
	}
	//
	p.writeExpr(e.Left, prec)
	p.write(" %s ", e.Op.String())
	p.writeExpr(e.Right, prec+1)
}

func (p *printer) writeKeyword(kw *ast.Keyword) {
	p.write("%s=", kw.Arg)
	p.writeExpr(kw.Value, precLambda)
}

func (p *printer) writeElements(elts []ast.Expr) {
	for i, e := range elts {
		p.writeSeparator(i)
		p.writeExpr(e, precNamed)
	}
}

func (p *printer) writeSeparator(index int) {
	if index != 0 {
		p.write(", ")
	}
}

// Determine the binding strength of a given expression.
func precedence(expr ast.Expr) uint {
	switch e := expr.(type) {
	case *ast.NamedExpr:
		return precNamed
	case *ast.Lambda:
		return precLambda
	case *ast.BoolOp:
		if e.Op == ast.OR {
			return precOr
		}
		//
		return precAnd
	case *ast.UnaryOp:
		if e.Op == ast.NOT {
			return precNot
		}
		//
		return precUnary
	case *ast.Compare:
		return precCompare
	case *ast.BinOp:
		switch e.Op {
		case ast.ADD, ast.SUB:
			return precArith
		case ast.POW:
			return precPower
		default:
			return precTerm
		}
	case *ast.Constant:
		// A negative literal behaves like a unary operation.
		if v, ok := e.Value.(int64); ok && v < 0 {
			return precUnary
		}
	}
	//
	return precPrimary
}

// Render a literal value.
func constant(value any) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		//
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		if strings.ContainsRune(v, '"') {
			return "'" + v + "'"
		}
		//
		return "\"" + v + "\""
	default:
		panic(fmt.Sprintf("unknown constant encountered (%T)", value))
	}
}
