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
package interp

import (
	"fmt"
	"io"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/util/source"
)

// MAX_CALL_DEPTH bounds the nesting of function calls, such that runaway
// recursion is reported as an error.
const MAX_CALL_DEPTH = 1000

// Frame holds the variables of one activation of a function (or of the module
// itself).
type Frame struct {
	vars map[string]Value
	// Names which are local to this frame, or nil for the global frame.
	locals map[string]bool
	// Lexically enclosing frame, or nil for the global frame.
	parent *Frame
}

func newFrame(locals map[string]bool, parent *Frame) *Frame {
	return &Frame{make(map[string]Value), locals, parent}
}

// Interpreter executes host syntax trees.  Its global frame persists across
// calls to Exec, such that definitions made by one are visible to the next.
type Interpreter struct {
	globals  *Frame
	builtins map[string]*Builtin
	out      io.Writer
	// Source maps used for locating runtime errors.
	srcmaps []*source.Map[ast.Node]
	// Current call depth
	depth int
}

// New constructs an interpreter with an empty global frame, whose output (e.g.
// from print) goes to a given writer.
func New(out io.Writer) *Interpreter {
	ip := &Interpreter{
		globals:  newFrame(nil, nil),
		builtins: make(map[string]*Builtin),
		out:      out,
	}
	//
	for _, b := range BUILTINS {
		ip.builtins[b.Name] = b
	}
	//
	return ip
}

// AddSourceMap registers a source map which is then used to report the
// location of runtime errors arising from nodes it covers.
func (ip *Interpreter) AddSourceMap(srcmap *source.Map[ast.Node]) {
	ip.srcmaps = append(ip.srcmaps, srcmap)
}

// Exec executes all statements of a module in the global frame.
func (ip *Interpreter) Exec(module *ast.Module) error {
	_, _, err := ip.execStmts(module.Body, ip.globals)
	return err
}

// Eval evaluates a given expression in the global frame.
func (ip *Interpreter) Eval(expr ast.Expr) (Value, error) {
	return ip.eval(expr, ip.globals)
}

// Lookup returns the value of a global variable, if it is defined.
func (ip *Interpreter) Lookup(name string) (Value, bool) {
	v, ok := ip.globals.vars[name]
	return v, ok
}

// Bind assigns a value to a given global variable.
func (ip *Interpreter) Bind(name string, value Value) {
	ip.globals.vars[name] = value
}

// Globals returns the names of all global variables currently defined.
func (ip *Interpreter) Globals() []string {
	names := make([]string, 0, len(ip.globals.vars))
	//
	for n := range ip.globals.vars {
		names = append(names, n)
	}
	//
	return names
}

// Call invokes the global function of a given name with some arguments.
func (ip *Interpreter) Call(name string, args ...Value) (Value, error) {
	fn, ok := ip.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("name '%s' is not defined", name)
	}
	//
	return ip.Apply(fn, args, nil)
}

// Apply a callable value to a given set of positional and keyword arguments.
func (ip *Interpreter) Apply(fn Value, args []Value, kwargs map[string]Value) (Value, error) {
	if ip.depth >= MAX_CALL_DEPTH {
		return nil, fmt.Errorf("maximum call depth exceeded")
	}
	//
	ip.depth++
	defer func() { ip.depth-- }()
	//
	switch f := fn.(type) {
	case *Builtin:
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s() takes no keyword arguments", f.Name)
		}
		//
		return f.Fn(ip, args)
	case *Function:
		frame := newFrame(f.locals, f.closure)
		//
		if err := bindArguments(f, frame, args, kwargs); err != nil {
			return nil, err
		} else if f.Expr != nil {
			return ip.eval(f.Expr, frame)
		}
		//
		_, value, err := ip.execStmts(f.Body, frame)
		//
		return value, err
	default:
		return nil, fmt.Errorf("'%s' object is not callable", TypeName(fn))
	}
}

func bindArguments(f *Function, frame *Frame, args []Value, kwargs map[string]Value) error {
	if len(args) > len(f.Params) {
		return fmt.Errorf("%s() takes %d positional arguments but %d were given", f.Name, len(f.Params), len(args))
	}
	//
	for i, arg := range args {
		frame.vars[f.Params[i]] = arg
	}
	//
	for k, v := range kwargs {
		if _, ok := frame.vars[k]; ok {
			return fmt.Errorf("%s() got multiple values for argument '%s'", f.Name, k)
		} else if !contains(f.Params, k) {
			return fmt.Errorf("%s() got an unexpected keyword argument '%s'", f.Name, k)
		}
		//
		frame.vars[k] = v
	}
	//
	for _, p := range f.Params {
		if _, ok := frame.vars[p]; !ok {
			return fmt.Errorf("%s() missing required argument: '%s'", f.Name, p)
		}
	}
	//
	return nil
}

// ============================================================================
// Statements
// ============================================================================

// Execute a sequence of statements, returning whether a return statement was
// executed and, if so, the value returned.
func (ip *Interpreter) execStmts(stmts []ast.Stmt, frame *Frame) (bool, Value, error) {
	for _, s := range stmts {
		if returned, value, err := ip.execStmt(s, frame); err != nil || returned {
			return returned, value, err
		}
	}
	//
	return false, nil, nil
}

func (ip *Interpreter) execStmt(stmt ast.Stmt, frame *Frame) (bool, Value, error) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		frame.vars[s.Name] = &Function{
			Name:    s.Name,
			Params:  s.Params,
			Body:    s.Body,
			locals:  functionLocals(s),
			closure: frame,
		}
	case *ast.Return:
		if s.Value == nil {
			return true, nil, nil
		}
		//
		value, err := ip.eval(s.Value, frame)
		//
		return err == nil, value, err
	case *ast.Assign:
		value, err := ip.eval(s.Value, frame)
		if err != nil {
			return false, nil, err
		}
		//
		frame.vars[s.Target.Id] = value
	case *ast.ExprStmt:
		if _, err := ip.eval(s.Value, frame); err != nil {
			return false, nil, err
		}
	case *ast.If:
		test, err := ip.eval(s.Test, frame)
		if err != nil {
			return false, nil, err
		} else if Truthy(test) {
			return ip.execStmts(s.Body, frame)
		}
		//
		return ip.execStmts(s.Orelse, frame)
	case *ast.While:
		for {
			test, err := ip.eval(s.Test, frame)
			if err != nil || !Truthy(test) {
				return false, nil, err
			}
			//
			if returned, value, err := ip.execStmts(s.Body, frame); err != nil || returned {
				return returned, value, err
			}
		}
	case *ast.Pass:
		// nothing to do
	default:
		return false, nil, ip.runtimeError(stmt, fmt.Sprintf("unknown statement (%T)", stmt))
	}
	//
	return false, nil, nil
}

// ============================================================================
// Scoping
// ============================================================================

// Determine the names local to a declared function.  These are its parameters,
// along with any name assigned within its body (excluding those assigned
// within nested functions).
func functionLocals(fn *ast.FunctionDef) map[string]bool {
	locals := make(map[string]bool)
	//
	for _, p := range fn.Params {
		locals[p] = true
	}
	//
	for _, s := range fn.Body {
		collectBindings(s, locals)
	}
	//
	return locals
}

// Determine the names local to a lambda.  These are its parameters, along
// with any inline assignment within its body.
func lambdaLocals(fn *ast.Lambda) map[string]bool {
	locals := make(map[string]bool)
	//
	for _, p := range fn.Params {
		locals[p] = true
	}
	//
	collectBindings(fn.Body, locals)
	//
	return locals
}

func collectBindings(node ast.Node, locals map[string]bool) {
	ast.Inspect(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FunctionDef:
			locals[n.Name] = true
			return false
		case *ast.Lambda:
			return false
		case *ast.Assign:
			locals[n.Target.Id] = true
		case *ast.NamedExpr:
			locals[n.Target.Id] = true
		}
		//
		return true
	})
}

// Resolve a name by searching outwards through the enclosing frames, and
// finally the builtins.
func (ip *Interpreter) lookup(name string, frame *Frame) (Value, error) {
	for f := frame; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, nil
		} else if f.locals[name] {
			return nil, fmt.Errorf("local variable '%s' referenced before assignment", name)
		}
	}
	//
	if b, ok := ip.builtins[name]; ok {
		return b, nil
	}
	//
	return nil, fmt.Errorf("name '%s' is not defined", name)
}

// ============================================================================
// Errors
// ============================================================================

// RuntimeError is an error arising during execution.  Where possible, it
// identifies the node responsible and its location in the original source.
type RuntimeError struct {
	Node ast.Node
	msg  string
	// Location of the offending node, if known.
	location *source.SyntaxError
}

// Message returns the message reported by this error.
func (e *RuntimeError) Message() string {
	return e.msg
}

// Location returns the location in the source text of this error, if known.
func (e *RuntimeError) Location() *source.SyntaxError {
	return e.location
}

func (e *RuntimeError) Error() string {
	if e.location != nil {
		return e.location.Error()
	}
	//
	return e.msg
}

// Construct a runtime error for a given node, locating it if possible.
func (ip *Interpreter) runtimeError(node ast.Node, msg string) *RuntimeError {
	err := &RuntimeError{Node: node, msg: msg}
	//
	for _, m := range ip.srcmaps {
		if span, ok := m.Lookup(node); ok {
			err.location = m.Source().SyntaxError(span, msg)
			break
		}
	}
	//
	return err
}

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	//
	return false
}
