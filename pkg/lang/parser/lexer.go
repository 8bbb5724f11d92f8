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
	"github.com/consensys/go-sublambda/pkg/util/source"
	"github.com/consensys/go-sublambda/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals spaces or tabs
const WHITESPACE uint = 1

// COMMENT signals "# ... \n"
const COMMENT uint = 2

// NEWLINE signals the end of a logical line
const NEWLINE uint = 3

// INDENT signals an increase in indentation
const INDENT uint = 4

// DEDENT signals a decrease in indentation
const DEDENT uint = 5

// LBRACE signals "("
const LBRACE uint = 6

// RBRACE signals ")"
const RBRACE uint = 7

// LSQUARE signals "["
const LSQUARE uint = 8

// RSQUARE signals "]"
const RSQUARE uint = 9

// COMMA signals ","
const COMMA uint = 10

// COLON signals ":"
const COLON uint = 11

// NUMBER signals an integer number
const NUMBER uint = 12

// STRING signals a quoted string
const STRING uint = 13

// IDENTIFIER signals a variable or function name
const IDENTIFIER uint = 20

// KEYWORD_DEF signals "def"
const KEYWORD_DEF uint = 21

// KEYWORD_RETURN signals "return"
const KEYWORD_RETURN uint = 22

// KEYWORD_IF signals "if"
const KEYWORD_IF uint = 23

// KEYWORD_ELIF signals "elif"
const KEYWORD_ELIF uint = 24

// KEYWORD_ELSE signals "else"
const KEYWORD_ELSE uint = 25

// KEYWORD_WHILE signals "while"
const KEYWORD_WHILE uint = 26

// KEYWORD_PASS signals "pass"
const KEYWORD_PASS uint = 27

// KEYWORD_LAMBDA signals "lambda"
const KEYWORD_LAMBDA uint = 28

// KEYWORD_AND signals "and"
const KEYWORD_AND uint = 29

// KEYWORD_OR signals "or"
const KEYWORD_OR uint = 30

// KEYWORD_NOT signals "not"
const KEYWORD_NOT uint = 31

// KEYWORD_TRUE signals "True"
const KEYWORD_TRUE uint = 32

// KEYWORD_FALSE signals "False"
const KEYWORD_FALSE uint = 33

// KEYWORD_NONE signals "None"
const KEYWORD_NONE uint = 34

// EQUALS signals "="
const EQUALS uint = 40

// COLON_EQUALS signals ":="
const COLON_EQUALS uint = 41

// EQUALS_EQUALS signals "=="
const EQUALS_EQUALS uint = 42

// NOT_EQUALS signals "!="
const NOT_EQUALS uint = 43

// LESS_THAN signals "<"
const LESS_THAN uint = 44

// LESS_THAN_EQUALS signals "<="
const LESS_THAN_EQUALS uint = 45

// GREATER_THAN signals ">"
const GREATER_THAN uint = 46

// GREATER_THAN_EQUALS signals ">="
const GREATER_THAN_EQUALS uint = 47

// ADD signals "+"
const ADD uint = 48

// SUB signals "-"
const SUB uint = 49

// MUL signals "*"
const MUL uint = 50

// POW signals "**"
const POW uint = 51

// FLOORDIV signals "//"
const FLOORDIV uint = 52

// MOD signals "%"
const MOD uint = 53

// KEYWORDS maps reserved words to their token kinds.  Identifiers are lexed
// first, and then reclassified using this table.
var KEYWORDS = map[string]uint{
	"def":    KEYWORD_DEF,
	"return": KEYWORD_RETURN,
	"if":     KEYWORD_IF,
	"elif":   KEYWORD_ELIF,
	"else":   KEYWORD_ELSE,
	"while":  KEYWORD_WHILE,
	"pass":   KEYWORD_PASS,
	"lambda": KEYWORD_LAMBDA,
	"and":    KEYWORD_AND,
	"or":     KEYWORD_OR,
	"not":    KEYWORD_NOT,
	"True":   KEYWORD_TRUE,
	"False":  KEYWORD_FALSE,
	"None":   KEYWORD_NONE,
}

// Rule for describing whitespace (newlines are significant, hence excluded)
var whitespace lex.Scanner[rune] = lex.Many(lex.OneOf(' ', '\t', '\r'))

var newline lex.Scanner[rune] = lex.Or(lex.String("\r\n"), lex.Unit('\n'))

// Rule for describing numbers.  A number is either hexadecimal or decimal,
// with '_' permitted (and ignored) for readability.
var (
	decimal = lex.Sequence(lex.Within('0', '9'), lex.Many(lex.Or(lex.Within('0', '9'), lex.Unit('_'))))

	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	hexadecimal = lex.Sequence(lex.String("0x"), hexDigit, lex.Many(lex.Or(hexDigit, lex.Unit('_'))))

	number = lex.Or(hexadecimal, decimal)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers.  Observe that '$' is never part of an
// identifier, which allows generated names to be distinguished from anything
// appearing in source text.
var identifier lex.Scanner[rune] = lex.Sequence(identifierStart, identifierRest)

// Rule for describing strings in (single or double) quotes
var strung lex.Scanner[rune] = lex.Or(
	lex.Sequence(lex.Unit('"'), lex.Many(lex.Not('"')), lex.Unit('"')),
	lex.Sequence(lex.Unit('"'), lex.Unit('"')),
	lex.Sequence(lex.Unit('\''), lex.Many(lex.Not('\'')), lex.Unit('\'')),
	lex.Sequence(lex.Unit('\''), lex.Unit('\'')),
)

// Comments start with '#' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.Sequence(lex.Unit('#'), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(newline, NEWLINE),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.String(":="), COLON_EQUALS),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.String("=="), EQUALS_EQUALS),
	lex.Rule(lex.String("!="), NOT_EQUALS),
	lex.Rule(lex.String("<="), LESS_THAN_EQUALS),
	lex.Rule(lex.String(">="), GREATER_THAN_EQUALS),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(lex.Unit('>'), GREATER_THAN),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.String("**"), POW),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.String("//"), FLOORDIV),
	lex.Rule(lex.Unit('%'), MOD),
	lex.Rule(number, NUMBER),
	lex.Rule(strung, STRING),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace and comments are removed, keywords are
// identified and the layout of the file is converted into explicit NEWLINE,
// INDENT and DEDENT tokens.  The returned sequence always ends with END_OF.
func Lex(srcfile *source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		err := srcfile.SyntaxError(source.NewSpan(start, start+1), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Reclassify keywords
	for i, t := range tokens {
		if t.Kind == IDENTIFIER {
			if kind, ok := KEYWORDS[srcfile.Text(t.Span)]; ok {
				tokens[i].Kind = kind
			}
		}
	}
	//
	return layout(srcfile, tokens)
}

// Layout converts physical lines into logical ones.  Blank lines (and those
// holding only comments) are dropped, line breaks inside brackets are ignored
// and changes in the indentation of logical lines are signalled with INDENT and
// DEDENT tokens.
func layout(srcfile *source.File, tokens []lex.Token) ([]lex.Token, []source.SyntaxError) {
	var (
		ntokens []lex.Token
		// Stack of enclosing indentation levels
		indents = []int{0}
		// Current bracket nesting depth
		depth = 0
		// Start of the current physical line
		lineStart = 0
		// Whether the current logical line has any tokens yet
		atLineStart = true
	)
	//
	for _, t := range tokens {
		switch t.Kind {
		case WHITESPACE, COMMENT:
			continue
		case NEWLINE:
			lineStart = t.Span.End()
			// Line breaks are only significant outside brackets, and only if
			// the line holds something.
			if depth == 0 && !atLineStart {
				ntokens = append(ntokens, t)
				atLineStart = true
			}
			//
			continue
		case END_OF:
			span := t.Span
			// Terminate any unfinished line
			if !atLineStart {
				ntokens = append(ntokens, lex.Token{Kind: NEWLINE, Span: span})
			}
			// Close any open blocks
			for len(indents) > 1 {
				indents = indents[:len(indents)-1]
				ntokens = append(ntokens, lex.Token{Kind: DEDENT, Span: span})
			}
			//
			ntokens = append(ntokens, t)
			//
			return ntokens, nil
		}
		// Determine indentation at the start of a logical line
		if atLineStart && depth == 0 {
			var (
				column = t.Span.Start() - lineStart
				top    = indents[len(indents)-1]
				span   = source.NewSpan(t.Span.Start(), t.Span.Start())
			)
			//
			if column > top {
				indents = append(indents, column)
				ntokens = append(ntokens, lex.Token{Kind: INDENT, Span: span})
			}
			//
			for column < indents[len(indents)-1] {
				indents = indents[:len(indents)-1]
				ntokens = append(ntokens, lex.Token{Kind: DEDENT, Span: span})
			}
			//
			if column != indents[len(indents)-1] {
				return nil, []source.SyntaxError{*srcfile.SyntaxError(t.Span, "inconsistent indentation")}
			}
		}
		//
		atLineStart = false
		//
		switch t.Kind {
		case LBRACE, LSQUARE:
			depth++
		case RBRACE, RSQUARE:
			depth = max(0, depth-1)
		}
		//
		ntokens = append(ntokens, t)
	}
	// Unreachable, since END_OF always terminates the token stream.
	panic("missing end of file")
}
