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
package parser

import (
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/util/source"
	"github.com/consensys/go-sublambda/pkg/util/source/lex"
)

// ParseModule parses a given source file as a sequence of statements.  The
// returned source map records the span of every node constructed.
func ParseModule(srcfile *source.File) (*ast.Module, *source.Map[ast.Node], []source.SyntaxError) {
	parser := NewParser(srcfile)
	//
	module, errs := parser.ParseModule()
	//
	return module, parser.srcmap, errs
}

// ParseExpression parses a given source file which must consist of exactly one
// expression (possibly followed by a line break).
func ParseExpression(srcfile *source.File) (ast.Expr, *source.Map[ast.Node], []source.SyntaxError) {
	parser := NewParser(srcfile)
	//
	expr, errs := parser.ParseExpression()
	//
	return expr, parser.srcmap, errs
}

// ParseModuleString is a convenience for parsing text which does not originate
// from a file.
func ParseModuleString(text string) (*ast.Module, []source.SyntaxError) {
	module, _, errs := ParseModule(source.NewSourceString("<string>", text))
	return module, errs
}

// ParseExpressionString is a convenience for parsing an expression which does
// not originate from a file.
func ParseExpressionString(text string) (ast.Expr, []source.SyntaxError) {
	expr, _, errs := ParseExpression(source.NewSourceString("<string>", text))
	return expr, errs
}

// COMPARATORS captures the set of comparison operators, and their meaning.
var COMPARATORS = map[uint]ast.CmpOp{
	EQUALS_EQUALS:       ast.EQ,
	NOT_EQUALS:          ast.NEQ,
	LESS_THAN:           ast.LT,
	LESS_THAN_EQUALS:    ast.LTEQ,
	GREATER_THAN:        ast.GT,
	GREATER_THAN_EQUALS: ast.GTEQ,
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a recursive-descent parser for the host language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[ast.Node]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[ast.Node](srcfile)
	//
	return &Parser{srcfile, nil, srcmap, 0}
}

// ParseModule parses the given source file into a sequence of zero or more
// statements, or some number of syntax errors.
func (p *Parser) ParseModule() (*ast.Module, []source.SyntaxError) {
	var (
		start  = p.index
		module = &ast.Module{Body: []ast.Stmt{}}
		errs   []source.SyntaxError
		stmt   ast.Stmt
	)
	// Convert source file into tokens
	if p.tokens, errs = Lex(p.srcfile); len(errs) > 0 {
		return nil, errs
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		if p.follows(INDENT) {
			return nil, p.syntaxErrors(p.lookahead(), "unexpected indent")
		} else if stmt, errs = p.parseStatement(); len(errs) > 0 {
			return nil, errs
		}
		//
		module.Body = append(module.Body, stmt)
	}
	//
	p.srcmap.Put(module, p.spanOf(start, p.index))
	//
	return module, nil
}

// ParseExpression parses the given source file as a single expression.
func (p *Parser) ParseExpression() (ast.Expr, []source.SyntaxError) {
	var (
		errs []source.SyntaxError
		expr ast.Expr
	)
	// Convert source file into tokens
	if p.tokens, errs = Lex(p.srcfile); len(errs) > 0 {
		return nil, errs
	}
	// Indentation carries no meaning for a lone expression
	p.match(INDENT)
	//
	if p.follows(END_OF) {
		return nil, p.syntaxErrors(p.lookahead(), "expected expression")
	} else if expr, errs = p.parseTestList(); len(errs) > 0 {
		return nil, errs
	}
	// Allow trailing line break
	p.match(NEWLINE)
	p.match(DEDENT)
	//
	if !p.follows(END_OF) {
		return nil, p.syntaxErrors(p.lookahead(), "unexpected token")
	}
	//
	return expr, nil
}

// ============================================================================
// Statements
// ============================================================================

func (p *Parser) parseStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt ast.Stmt
		errs []source.SyntaxError
	)
	//
	switch p.lookahead().Kind {
	case KEYWORD_DEF:
		return p.parseFunctionDef()
	case KEYWORD_IF:
		return p.parseIf()
	case KEYWORD_WHILE:
		return p.parseWhile()
	}
	//
	if stmt, errs = p.parseSimpleStatement(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(NEWLINE); len(errs) > 0 {
		return nil, errs
	}
	//
	return stmt, nil
}

func (p *Parser) parseSimpleStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		start = p.index
		stmt  ast.Stmt
		expr  ast.Expr
		errs  []source.SyntaxError
	)
	//
	switch {
	case p.match(KEYWORD_PASS):
		stmt = &ast.Pass{}
	case p.match(KEYWORD_RETURN):
		if p.follows(NEWLINE) {
			stmt = &ast.Return{}
		} else if expr, errs = p.parseTestList(); len(errs) == 0 {
			stmt = &ast.Return{Value: expr}
		}
	case p.follows(IDENTIFIER) && p.peek().Kind == EQUALS:
		var target *ast.Name
		//
		if target, errs = p.parseTarget(); len(errs) > 0 {
			return nil, errs
		}
		// Consume "="
		p.match(EQUALS)
		//
		if expr, errs = p.parseTestList(); len(errs) == 0 {
			stmt = &ast.Assign{Target: target, Value: expr}
		}
	default:
		if expr, errs = p.parseNamedExprList(); len(errs) == 0 {
			stmt = &ast.ExprStmt{Value: expr}
		}
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(stmt, p.spanOf(start, p.index-1))
	//
	return stmt, nil
}

func (p *Parser) parseFunctionDef() (ast.Stmt, []source.SyntaxError) {
	var (
		start  = p.index
		name   string
		params []string
		body   []ast.Stmt
		errs   []source.SyntaxError
	)
	// Parse function declaration
	if _, errs = p.expect(KEYWORD_DEF); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	} else if params, errs = p.parseParameters(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Save for source map
	end := p.index
	//
	if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	fn := &ast.FunctionDef{Name: name, Params: params, Body: body}
	p.srcmap.Put(fn, p.spanOf(start, end-1))
	//
	return fn, nil
}

// Parse a (possibly empty) comma-separated list of distinct parameter names,
// stopping at a given terminator (which is not consumed).
func (p *Parser) parseParameters(terminator uint) ([]string, []source.SyntaxError) {
	var (
		params = []string{}
		param  string
		errs   []source.SyntaxError
	)
	//
	for !p.follows(terminator) {
		if len(params) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			} else if p.follows(terminator) {
				// trailing comma
				break
			}
		}
		// save lookahead token for syntax errors
		lookahead := p.lookahead()
		//
		if param, errs = p.parseIdentifier(); len(errs) > 0 {
			return nil, errs
		} else if slices.Contains(params, param) {
			return nil, p.syntaxErrors(lookahead, "duplicate parameter")
		}
		//
		params = append(params, param)
	}
	//
	return params, nil
}

func (p *Parser) parseIf() (ast.Stmt, []source.SyntaxError) {
	var (
		start = p.index
		test  ast.Expr
		body  []ast.Stmt
		other []ast.Stmt
		errs  []source.SyntaxError
	)
	// Either "if" or "elif"
	if !p.match(KEYWORD_IF) && !p.match(KEYWORD_ELIF) {
		return nil, p.syntaxErrors(p.lookahead(), "unexpected token")
	} else if test, errs = p.parseNamedExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	end := p.index
	//
	if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	switch {
	case p.follows(KEYWORD_ELIF):
		var elif ast.Stmt
		//
		if elif, errs = p.parseIf(); len(errs) > 0 {
			return nil, errs
		}
		//
		other = []ast.Stmt{elif}
	case p.match(KEYWORD_ELSE):
		if other, errs = p.parseBlock(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	stmt := &ast.If{Test: test, Body: body, Orelse: other}
	p.srcmap.Put(stmt, p.spanOf(start, end-1))
	//
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, []source.SyntaxError) {
	var (
		start = p.index
		test  ast.Expr
		body  []ast.Stmt
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_WHILE); len(errs) > 0 {
		return nil, errs
	} else if test, errs = p.parseNamedExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	end := p.index
	//
	if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	stmt := &ast.While{Test: test, Body: body}
	p.srcmap.Put(stmt, p.spanOf(start, end-1))
	//
	return stmt, nil
}

// Parse the body of a compound statement, starting from the colon.  This is
// either an indented block, or a single simple statement on the same line.
func (p *Parser) parseBlock() ([]ast.Stmt, []source.SyntaxError) {
	var (
		stmts []ast.Stmt
		stmt  ast.Stmt
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	}
	// Single line case
	if !p.follows(NEWLINE) {
		if stmt, errs = p.parseSimpleStatement(); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(NEWLINE); len(errs) > 0 {
			return nil, errs
		}
		//
		return []ast.Stmt{stmt}, nil
	}
	//
	p.match(NEWLINE)
	//
	if _, errs = p.expect(INDENT); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(DEDENT) {
		if stmt, errs = p.parseStatement(); len(errs) > 0 {
			return nil, errs
		}
		//
		stmts = append(stmts, stmt)
	}
	//
	return stmts, nil
}

// ============================================================================
// Expressions
// ============================================================================

// Parse one or more expressions separated by commas, which produces a tuple
// when there is more than one (or a trailing comma).
func (p *Parser) parseTestList() (ast.Expr, []source.SyntaxError) {
	return p.parseSequence(p.parseTest)
}

// As for parseTestList, except that inline assignments are permitted.
func (p *Parser) parseNamedExprList() (ast.Expr, []source.SyntaxError) {
	return p.parseSequence(p.parseNamedExpr)
}

func (p *Parser) parseSequence(element func() (ast.Expr, []source.SyntaxError)) (ast.Expr, []source.SyntaxError) {
	var (
		start       = p.index
		first, errs = element()
		elts        = []ast.Expr{first}
		next        ast.Expr
	)
	//
	if len(errs) > 0 || !p.follows(COMMA) {
		return first, errs
	}
	//
	for p.match(COMMA) && p.followsExpression() {
		if next, errs = element(); len(errs) > 0 {
			return nil, errs
		}
		//
		elts = append(elts, next)
	}
	//
	tuple := &ast.Tuple{Elts: elts}
	p.srcmap.Put(tuple, p.spanOf(start, p.index-1))
	//
	return tuple, nil
}

func (p *Parser) parseNamedExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start  = p.index
		target *ast.Name
		value  ast.Expr
		errs   []source.SyntaxError
	)
	//
	if !p.follows(IDENTIFIER) || p.peek().Kind != COLON_EQUALS {
		return p.parseTest()
	} else if target, errs = p.parseTarget(); len(errs) > 0 {
		return nil, errs
	}
	// Consume ":="
	p.match(COLON_EQUALS)
	//
	if value, errs = p.parseTest(); len(errs) > 0 {
		return nil, errs
	}
	//
	expr := &ast.NamedExpr{Target: target, Value: value}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func (p *Parser) parseTarget() (*ast.Name, []source.SyntaxError) {
	var start = p.index
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	target := ast.NewName(name, ast.Write)
	p.srcmap.Put(target, p.spanOf(start, start))
	//
	return target, nil
}

func (p *Parser) parseTest() (ast.Expr, []source.SyntaxError) {
	if p.follows(KEYWORD_LAMBDA) {
		return p.parseLambda()
	}
	//
	return p.parseBoolOp(KEYWORD_OR, ast.OR, func() (ast.Expr, []source.SyntaxError) {
		return p.parseBoolOp(KEYWORD_AND, ast.AND, p.parseNot)
	})
}

func (p *Parser) parseLambda() (ast.Expr, []source.SyntaxError) {
	var (
		start  = p.index
		params []string
		body   ast.Expr
		errs   []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_LAMBDA); len(errs) > 0 {
		return nil, errs
	} else if params, errs = p.parseParameters(COLON); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseTest(); len(errs) > 0 {
		return nil, errs
	}
	//
	lambda := &ast.Lambda{Params: params, Body: body}
	p.srcmap.Put(lambda, p.spanOf(start, p.index-1))
	//
	return lambda, nil
}

// Parse a left-associative chain of a given boolean connective.
func (p *Parser) parseBoolOp(kind uint, op ast.LogicalOp,
	operand func() (ast.Expr, []source.SyntaxError)) (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = operand()
		rhs       ast.Expr
	)
	//
	for len(errs) == 0 && p.match(kind) {
		if rhs, errs = operand(); len(errs) > 0 {
			return nil, errs
		}
		//
		lhs = &ast.BoolOp{Op: op, Left: lhs, Right: rhs}
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

func (p *Parser) parseNot() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if !p.match(KEYWORD_NOT) {
		return p.parseComparison()
	}
	//
	operand, errs := p.parseNot()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	expr := &ast.UnaryOp{Op: ast.NOT, Operand: operand}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func (p *Parser) parseComparison() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseArith()
		rhs       ast.Expr
	)
	//
	op, ok := COMPARATORS[p.lookahead().Kind]
	//
	if len(errs) > 0 || !ok {
		return lhs, errs
	}
	// Consume comparator
	p.index++
	//
	if rhs, errs = p.parseArith(); len(errs) > 0 {
		return nil, errs
	} else if _, ok := COMPARATORS[p.lookahead().Kind]; ok {
		return nil, p.syntaxErrors(p.lookahead(), "chained comparisons are not supported")
	}
	//
	expr := &ast.Compare{Op: op, Left: lhs, Right: rhs}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func (p *Parser) parseArith() (ast.Expr, []source.SyntaxError) {
	return p.parseBinaryChain(map[uint]ast.BinaryOp{ADD: ast.ADD, SUB: ast.SUB}, p.parseTerm)
}

func (p *Parser) parseTerm() (ast.Expr, []source.SyntaxError) {
	return p.parseBinaryChain(map[uint]ast.BinaryOp{MUL: ast.MUL, FLOORDIV: ast.FLOORDIV, MOD: ast.MOD},
		p.parseFactor)
}

// Parse a left-associative chain of binary operators drawn from a given set.
func (p *Parser) parseBinaryChain(ops map[uint]ast.BinaryOp,
	operand func() (ast.Expr, []source.SyntaxError)) (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = operand()
		rhs       ast.Expr
	)
	//
	for len(errs) == 0 {
		op, ok := ops[p.lookahead().Kind]
		if !ok {
			break
		}
		// Consume operator
		p.index++
		//
		if rhs, errs = operand(); len(errs) > 0 {
			return nil, errs
		}
		//
		lhs = ast.NewBinOp(lhs, op, rhs)
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

func (p *Parser) parseFactor() (ast.Expr, []source.SyntaxError) {
	var (
		start = p.index
		op    ast.UnaryOperator
	)
	//
	switch {
	case p.match(SUB):
		op = ast.NEG
	case p.match(ADD):
		op = ast.PLUS
	default:
		return p.parsePower()
	}
	//
	operand, errs := p.parseFactor()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	expr := &ast.UnaryOp{Op: op, Operand: operand}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func (p *Parser) parsePower() (ast.Expr, []source.SyntaxError) {
	var (
		start      = p.index
		base, errs = p.parsePrimary()
		exponent   ast.Expr
	)
	//
	if len(errs) > 0 || !p.match(POW) {
		return base, errs
	}
	// Exponentiation is right-associative, and binds less tightly than a
	// unary operator on its right.
	if exponent, errs = p.parseFactor(); len(errs) > 0 {
		return nil, errs
	}
	//
	expr := ast.NewBinOp(base, ast.POW, exponent)
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expr, []source.SyntaxError) {
	var (
		start      = p.index
		expr, errs = p.parseAtom()
	)
	//
	for len(errs) == 0 {
		switch {
		case p.match(LBRACE):
			expr, errs = p.parseCallArguments(expr)
		case p.match(LSQUARE):
			var index ast.Expr
			//
			if index, errs = p.parseTestList(); len(errs) > 0 {
				return nil, errs
			} else if _, errs = p.expect(RSQUARE); len(errs) > 0 {
				return nil, errs
			}
			//
			expr = &ast.Subscript{Value: expr, Index: index}
		default:
			return expr, nil
		}
		//
		if len(errs) == 0 {
			p.srcmap.Put(expr, p.spanOf(start, p.index-1))
		}
	}
	//
	return nil, errs
}

// Parse the arguments of a call, assuming the opening brace has already been
// consumed.
func (p *Parser) parseCallArguments(fn ast.Expr) (ast.Expr, []source.SyntaxError) {
	var (
		call = &ast.Call{Func: fn, Args: []ast.Expr{}}
		errs []source.SyntaxError
	)
	//
	for !p.match(RBRACE) {
		var arg ast.Expr
		//
		if len(call.Args)+len(call.Keywords) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			} else if p.match(RBRACE) {
				// trailing comma
				break
			}
		}
		//
		start := p.index
		//
		if p.follows(IDENTIFIER) && p.peek().Kind == EQUALS {
			name, _ := p.parseIdentifier()
			// Consume "="
			p.match(EQUALS)
			//
			if arg, errs = p.parseTest(); len(errs) > 0 {
				return nil, errs
			}
			//
			keyword := &ast.Keyword{Arg: name, Value: arg}
			p.srcmap.Put(keyword, p.spanOf(start, p.index-1))
			call.Keywords = append(call.Keywords, keyword)
		} else if len(call.Keywords) > 0 {
			return nil, p.syntaxErrors(p.lookahead(), "positional argument follows keyword argument")
		} else if arg, errs = p.parseNamedExpr(); len(errs) > 0 {
			return nil, errs
		} else {
			call.Args = append(call.Args, arg)
		}
	}
	//
	return call, nil
}

func (p *Parser) parseAtom() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		atom      ast.Expr
		errs      []source.SyntaxError
	)
	//
	switch lookahead.Kind {
	case IDENTIFIER:
		p.match(IDENTIFIER)
		atom = ast.NewName(p.string(lookahead), ast.Read)
	case NUMBER:
		var val int64
		//
		p.match(NUMBER)
		//
		if val, errs = p.number(lookahead); len(errs) > 0 {
			return nil, errs
		}
		//
		atom = ast.NewConstant(val)
	case STRING:
		p.match(STRING)
		str := p.string(lookahead)
		atom = ast.NewConstant(str[1 : len(str)-1])
	case KEYWORD_TRUE:
		p.match(KEYWORD_TRUE)
		atom = ast.NewConstant(true)
	case KEYWORD_FALSE:
		p.match(KEYWORD_FALSE)
		atom = ast.NewConstant(false)
	case KEYWORD_NONE:
		p.match(KEYWORD_NONE)
		atom = ast.NewConstant(nil)
	case LBRACE:
		return p.parseBracketed()
	case LSQUARE:
		var elts []ast.Expr
		//
		p.match(LSQUARE)
		//
		if elts, errs = p.parseElements(RSQUARE); len(errs) > 0 {
			return nil, errs
		}
		//
		atom = &ast.List{Elts: elts}
	case END_OF:
		return nil, p.syntaxErrors(lookahead, "unexpected end of file")
	default:
		return nil, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	p.srcmap.Put(atom, p.spanOf(start, p.index-1))
	//
	return atom, nil
}

// Parse an expression in braces, which is either a tuple or simply a
// parenthesised expression.
func (p *Parser) parseBracketed() (ast.Expr, []source.SyntaxError) {
	var (
		start = p.index
		first ast.Expr
		elts  []ast.Expr
		errs  []source.SyntaxError
	)
	//
	p.match(LBRACE)
	// Empty tuple
	if !p.match(RBRACE) {
		if first, errs = p.parseNamedExpr(); len(errs) > 0 {
			return nil, errs
		} else if p.match(RBRACE) {
			// Don't add to source map, since it will already have been added.
			return first, nil
		} else if _, errs = p.expect(COMMA); len(errs) > 0 {
			return nil, errs
		} else if elts, errs = p.parseElements(RBRACE); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	tuple := &ast.Tuple{Elts: append([]ast.Expr{}, elts...)}
	//
	if first != nil {
		tuple.Elts = append([]ast.Expr{first}, elts...)
	}
	//
	p.srcmap.Put(tuple, p.spanOf(start, p.index-1))
	//
	return tuple, nil
}

// Parse zero or more comma-separated elements (permitting a trailing comma)
// up to and including a given closing token.
func (p *Parser) parseElements(terminator uint) ([]ast.Expr, []source.SyntaxError) {
	var (
		elts = []ast.Expr{}
		elt  ast.Expr
		errs []source.SyntaxError
	)
	//
	for !p.match(terminator) {
		if len(elts) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			} else if p.match(terminator) {
				break
			}
		}
		//
		if elt, errs = p.parseNamedExpr(); len(errs) > 0 {
			return nil, errs
		}
		//
		elts = append(elts, elt)
	}
	//
	return elts, nil
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.string(tok), nil
}

// Check whether the next token can start an expression.  This is used to
// permit trailing commas.
func (p *Parser) followsExpression() bool {
	return p.follows(IDENTIFIER, NUMBER, STRING, LBRACE, LSQUARE, SUB, ADD, KEYWORD_NOT, KEYWORD_LAMBDA,
		KEYWORD_TRUE, KEYWORD_FALSE, KEYWORD_NONE)
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Get the value of a numeric literal.
func (p *Parser) number(token lex.Token) (int64, []source.SyntaxError) {
	var (
		numstr = strings.ReplaceAll(p.string(token), "_", "")
		val    int64
		err    error
	)
	//
	if strings.HasPrefix(numstr, "0x") {
		val, err = strconv.ParseInt(numstr[2:], 16, 64)
	} else {
		val, err = strconv.ParseInt(numstr, 10, 64)
	}
	//
	if err != nil {
		return 0, p.syntaxErrors(token, "malformed numeric literal")
	}
	//
	return val, nil
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Peek returns the token after the next, or the final (EOF) token.
func (p *Parser) peek() lex.Token {
	return p.tokens[min(p.index+1, len(p.tokens)-1)]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind == END_OF {
		return lookahead, p.syntaxErrors(lookahead, "unexpected end of file")
	} else if lookahead.Kind != kind {
		return lookahead, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	lastToken = min(max(firstToken, lastToken), len(p.tokens)-1)
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, max(start, end))
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
