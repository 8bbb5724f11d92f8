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
package macro

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	log "github.com/sirupsen/logrus"
)

// FRESH_MARKER separates the original name of a variable from the name of the
// macro in a generated name.  The marker cannot occur in an identifier of the
// host language, hence generated names never clash with names written by hand.
const FRESH_MARKER = "$"

// NewHygienicMacro constructs a macro from the source text of a lambda
// expression, after renaming the variables it binds internally such that they
// cannot capture (or be captured by) variables at any call site.
func NewHygienicMacro(name string, src string) (*Macro, error) {
	lambda, err := parseLambda(name, src)
	if err != nil {
		return nil, err
	}
	//
	r := renamer{name, make(map[string]bool)}
	m := FromLambda(name, r.rename(lambda, nil).(*ast.Lambda))
	m.fresh = r.fresh
	//
	return m, nil
}

// Rename returns a copy of a macro's lambda where every variable assigned
// within the body is given a fresh name derived from the macro name.
// Parameters (of the lambda or of any nested lambda) keep their names, and
// names which are not bound within the lambda are left unchanged.  The given
// lambda is not modified.
func Rename(name string, lambda *ast.Lambda) *ast.Lambda {
	r := renamer{name, make(map[string]bool)}
	// Clone to avoid modifying the original
	return r.rename(lambda.Clone(), nil).(*ast.Lambda)
}

// FreshName returns the name given to a variable assigned within the body of a
// given hygienic macro.
func FreshName(macro string, variable string) string {
	return fmt.Sprintf("%s%s%s", variable, FRESH_MARKER, macro)
}

// InstanceName returns the name given to a fresh variable within one
// particular expansion of its macro.  Expansions are numbered from 1 by the
// expander which performs them.
func InstanceName(fresh string, instance uint) string {
	return fresh + FRESH_MARKER + strconv.FormatUint(uint64(instance), 10)
}

// Qualify every fresh name within a tree (drawn from a given set) by the
// number of an expansion, such that the variables of distinct expansions of
// the same macro are distinct.  The tree is rewritten in place.
func qualify(node ast.Node, fresh map[string]bool, instance uint) ast.Node {
	var rewriter ast.Rewriter
	//
	rewriter = func(node ast.Node) (ast.Node, error) {
		if name, ok := node.(*ast.Name); ok {
			if fresh[name.Id] {
				return ast.NewName(InstanceName(name.Id, instance), name.Ctx), nil
			}
			//
			return name, nil
		}
		//
		return ast.RewriteChildren(node, rewriter)
	}
	// Names are only ever replaced with names
	result, err := ast.Rewrite(node, rewriter)
	if err != nil {
		panic(err)
	}
	//
	return result
}

// Scope is a symbol table for one (possibly nested) lambda, mapping each name
// it binds either to itself (for parameters) or to a fresh name (for assigned
// variables).
type scope struct {
	bindings map[string]string
	// Enclosing scope, or nil for the outermost lambda.
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{make(map[string]string), parent}
}

// Resolve a name through this scope and its enclosing scopes.
func (s *scope) lookup(name string) (string, bool) {
	for p := s; p != nil; p = p.parent {
		if n, ok := p.bindings[name]; ok {
			return n, true
		}
	}
	//
	return "", false
}

type renamer struct {
	macro string
	// Fresh names generated so far
	fresh map[string]bool
}

// Rename a node within a given scope.  The scope is extended as bindings are
// encountered, in evaluation order, such that uses preceding an assignment
// still refer to the outer variable.
func (r *renamer) rename(node ast.Node, env *scope) ast.Node {
	switch n := node.(type) {
	case *ast.Lambda:
		inner := newScope(env)
		//
		for _, p := range n.Params {
			inner.bindings[p] = p
		}
		//
		n.Body = r.rename(n.Body, inner).(ast.Expr)
		//
		return n
	case *ast.NamedExpr:
		// Value evaluated before target is bound
		n.Value = r.rename(n.Value, env).(ast.Expr)
		n.Target = r.bind(n.Target, env)
		//
		return n
	case *ast.Assign:
		n.Value = r.rename(n.Value, env).(ast.Expr)
		n.Target = r.bind(n.Target, env)
		//
		return n
	case *ast.Name:
		if n.Ctx == ast.Read {
			if fresh, ok := env.lookup(n.Id); ok && fresh != n.Id {
				return ast.NewName(fresh, ast.Read)
			}
		}
		//
		return n
	}
	//
	result, err := ast.RewriteChildren(node, func(child ast.Node) (ast.Node, error) {
		return r.rename(child, env), nil
	})
	// Renaming only ever replaces names with names
	if err != nil {
		panic(err)
	}
	//
	return result
}

// Bind an assignment target to a fresh name in the innermost scope.  Since
// renaming always starts from a lambda, there is always such a scope.
func (r *renamer) bind(target *ast.Name, env *scope) *ast.Name {
	fresh := FreshName(r.macro, target.Id)
	//
	if _, ok := env.bindings[target.Id]; !ok {
		log.Debugf("macro %s: renaming %s to %s", r.macro, target.Id, fresh)
	}
	//
	env.bindings[target.Id] = fresh
	r.fresh[fresh] = true
	//
	return ast.NewName(fresh, ast.Write)
}
