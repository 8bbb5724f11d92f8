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
package session

import (
	"fmt"
	"io"
	"slices"

	"github.com/consensys/go-sublambda/pkg/fold"
	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/lang/interp"
	"github.com/consensys/go-sublambda/pkg/lang/parser"
	"github.com/consensys/go-sublambda/pkg/lang/printer"
	"github.com/consensys/go-sublambda/pkg/macro"
	"github.com/consensys/go-sublambda/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// FOLD_COMMAND is the name of the built-in cell command which folds constant
// additions before execution.
const FOLD_COMMAND = "fold"

// Transform rewrites the tree of a cell before it is executed.  The module is
// owned by the transform, and may be modified in place.  The source map covers
// the text of the cell, and should be updated for any new nodes.
type Transform func(*ast.Module, *source.Map[ast.Node]) (*ast.Module, error)

// Session is an interactive environment in which cells of source are executed
// one after the other, sharing a single set of global variables.  Cells can be
// handed to named commands which transform them before execution (e.g. by
// expanding macros).
type Session struct {
	ip       *interp.Interpreter
	commands map[string]Transform
	// Number of cells parsed so far, used for naming them.
	cells uint
}

// New constructs a fresh session whose output goes to a given writer.
func New(out io.Writer) *Session {
	s := &Session{interp.New(out), make(map[string]Transform), 0}
	//
	s.Define(FOLD_COMMAND, func(module *ast.Module, _ *source.Map[ast.Node]) (*ast.Module, error) {
		return fold.Module(module), nil
	})
	//
	return s
}

// Interpreter returns the interpreter holding the state of this session.
func (s *Session) Interpreter() *interp.Interpreter {
	return s.ip
}

// Define binds a command of a given name to a transform, replacing any
// existing command of the same name.
func (s *Session) Define(command string, transform Transform) {
	if _, ok := s.commands[command]; ok {
		log.Debugf("redefining command %s", command)
	}
	//
	s.commands[command] = transform
}

// DefineMacros builds a pipeline from a macro definition list, and binds a
// command of a given name which expands those macros within a cell before it
// is executed.
func (s *Session) DefineMacros(command string, definitions string, hygienic bool) (*macro.Pipeline, error) {
	pipeline, err := macro.BuildPipeline(definitions, hygienic)
	if err != nil {
		return nil, err
	}
	//
	s.Define(command, pipeline.ExpandModule)
	//
	return pipeline, nil
}

// Commands returns the names of all commands defined in this session, in
// alphabetical order.
func (s *Session) Commands() []string {
	names := make([]string, 0, len(s.commands))
	//
	for n := range s.commands {
		names = append(names, n)
	}
	//
	slices.Sort(names)
	//
	return names
}

// HasCommand checks whether a command of the given name is defined.
func (s *Session) HasCommand(command string) bool {
	_, ok := s.commands[command]
	return ok
}

// RunCell transforms a cell using a given command and then executes the
// result.
func (s *Session) RunCell(command string, cell string) error {
	module, srcmap, err := s.transform(command, cell)
	if err != nil {
		return err
	}
	//
	s.ip.AddSourceMap(srcmap)
	//
	return s.ip.Exec(module)
}

// Show transforms a cell using a given command, and returns the resulting
// source without executing it.
func (s *Session) Show(command string, cell string) (string, error) {
	module, _, err := s.transform(command, cell)
	if err != nil {
		return "", err
	}
	//
	return printer.String(module), nil
}

// Exec executes a cell as is.
func (s *Session) Exec(cell string) error {
	module, srcmap, err := s.parse(cell)
	if err != nil {
		return err
	}
	//
	s.ip.AddSourceMap(srcmap)
	//
	return s.ip.Exec(module)
}

// Eval evaluates a single expression in the global scope of this session.
func (s *Session) Eval(line string) (interp.Value, error) {
	srcfile := s.nextCell(line)
	//
	expr, srcmap, errs := parser.ParseExpression(srcfile)
	if len(errs) > 0 {
		return nil, &macro.ParseError{Errors: errs}
	}
	//
	s.ip.AddSourceMap(srcmap)
	//
	return s.ip.Eval(expr)
}

// Call invokes a function defined in this session.
func (s *Session) Call(fn string, args ...interp.Value) (interp.Value, error) {
	return s.ip.Call(fn, args...)
}

func (s *Session) transform(command string, cell string) (*ast.Module, *source.Map[ast.Node], error) {
	transform, ok := s.commands[command]
	if !ok {
		return nil, nil, fmt.Errorf("unknown command %s", command)
	}
	//
	module, srcmap, err := s.parse(cell)
	if err != nil {
		return nil, nil, err
	}
	//
	if module, err = transform(module, srcmap); err != nil {
		return nil, nil, err
	}
	//
	return module, srcmap, nil
}

func (s *Session) parse(cell string) (*ast.Module, *source.Map[ast.Node], error) {
	module, srcmap, errs := parser.ParseModule(s.nextCell(cell))
	if len(errs) > 0 {
		return nil, nil, &macro.ParseError{Errors: errs}
	}
	//
	return module, srcmap, nil
}

func (s *Session) nextCell(text string) *source.File {
	s.cells++
	//
	return source.NewSourceString(fmt.Sprintf("<cell-%d>", s.cells), text)
}
