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
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
	"github.com/consensys/go-sublambda/pkg/lang/parser"
	"github.com/consensys/go-sublambda/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Definition is a single entry of a macro definition list, pairing a name with
// the source text of a lambda.
type Definition struct {
	Name   string
	Source string
	// Line on which this definition appeared (counting from 1).
	Line int
}

// ParseDefinitions splits a macro definition list into its entries.  Each line
// holds one definition, consisting of a name followed by a single space and
// then the source of a lambda.  Lines without a space (including blank lines)
// or with an empty name are skipped.
func ParseDefinitions(text string) []Definition {
	var defs []Definition
	//
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		//
		if name, src, ok := strings.Cut(line, " "); ok && name != "" {
			defs = append(defs, Definition{name, src, i + 1})
		} else if strings.TrimSpace(line) != "" {
			log.Debugf("skipping macro definition on line %d", i+1)
		}
	}
	//
	return defs
}

// Pipeline is a fixed set of macros which can be expanded within any number of
// trees.  A pipeline is immutable after construction, hence expansions using
// the same pipeline may safely proceed concurrently.
type Pipeline struct {
	macros map[string]*Macro
	// Macro names in order of definition
	names    []string
	hygienic bool
}

// NewPipeline constructs a pipeline from a given set of macros.  Where two
// macros have the same name, the later one takes precedence.
func NewPipeline(hygienic bool, macros ...*Macro) *Pipeline {
	p := &Pipeline{make(map[string]*Macro), nil, hygienic}
	//
	for _, m := range macros {
		if _, ok := p.macros[m.Name()]; ok {
			log.Debugf("macro %s redefined", m.Name())
		} else {
			p.names = append(p.names, m.Name())
		}
		//
		p.macros[m.Name()] = m
	}
	//
	return p
}

// BuildPipeline constructs a pipeline from a macro definition list (see
// ParseDefinitions).  When hygienic is requested, variables assigned within
// each macro are renamed apart.  Construction fails on the first definition
// which does not parse, or is not a lambda.
func BuildPipeline(text string, hygienic bool) (*Pipeline, error) {
	var macros []*Macro
	//
	for _, def := range ParseDefinitions(text) {
		var (
			m   *Macro
			err error
		)
		//
		if hygienic {
			m, err = NewHygienicMacro(def.Name, def.Source)
		} else {
			m, err = NewMacro(def.Name, def.Source)
		}
		//
		if err != nil {
			return nil, err
		}
		//
		log.Debugf("registered macro %s (line %d)", m.String(), def.Line)
		//
		macros = append(macros, m)
	}
	//
	return NewPipeline(hygienic, macros...), nil
}

// Hygienic indicates whether the macros of this pipeline were renamed apart.
func (p *Pipeline) Hygienic() bool {
	return p.hygienic
}

// Macros returns the macros of this pipeline in order of definition.
func (p *Pipeline) Macros() []*Macro {
	macros := make([]*Macro, len(p.names))
	//
	for i, n := range p.names {
		macros[i] = p.macros[n]
	}
	//
	return macros
}

// Lookup returns the macro of a given name, if there is one.
func (p *Pipeline) Lookup(name string) (*Macro, bool) {
	m, ok := p.macros[name]
	return m, ok
}

// Expand all calls to macros of this pipeline within a given tree.  The given
// tree is not modified, instead the result is a new tree.  A tree containing
// no eligible calls is returned structurally unchanged.
func (p *Pipeline) Expand(node ast.Node) (ast.Node, error) {
	expander := NewExpander(p.macros, nil)
	//
	result, err := expander.Expand(node.Clone())
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("expanded %d macro call(s)", expander.Expansions())
	//
	return result, nil
}

// ExpandSource parses a given source file and expands all calls to macros of
// this pipeline within it.  Nodes introduced by an expansion are attributed in
// the returned source map to the call they replaced.
func (p *Pipeline) ExpandSource(srcfile *source.File) (*ast.Module, *source.Map[ast.Node], error) {
	module, srcmap, errs := parser.ParseModule(srcfile)
	if len(errs) > 0 {
		return nil, nil, &ParseError{errs}
	}
	//
	module, err := p.ExpandModule(module, srcmap)
	if err != nil {
		return nil, nil, err
	}
	//
	return module, srcmap, nil
}

// ExpandModule expands all calls to macros of this pipeline within a module
// which is owned by the caller, and is therefore modified in place.  The
// source map is optional and, when given, is updated to cover any nodes
// introduced.
func (p *Pipeline) ExpandModule(module *ast.Module, srcmap *source.Map[ast.Node]) (*ast.Module, error) {
	expander := NewExpander(p.macros, srcmap)
	//
	result, err := expander.Expand(module)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("expanded %d macro call(s)", expander.Expansions())
	//
	return result.(*ast.Module), nil
}

// ExpandString parses and expands some source text, returning the result as a
// tree.
func (p *Pipeline) ExpandString(text string) (*ast.Module, error) {
	module, _, err := p.ExpandSource(source.NewSourceString("<string>", text))
	return module, err
}

func (p *Pipeline) String() string {
	var builder strings.Builder
	//
	for i, m := range p.Macros() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(m.String())
	}
	//
	return fmt.Sprintf("{%s}", builder.String())
}
