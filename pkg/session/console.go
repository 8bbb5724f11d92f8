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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/interp"
	"github.com/consensys/go-sublambda/pkg/lang/parser"
)

// PROMPT is shown when the console is ready for a new entry.
const PROMPT = ">>> "

// CONTINUATION_PROMPT is shown when the console is collecting the lines of a
// multi-line entry, which is terminated by a blank line.
const CONTINUATION_PROMPT = "... "

// HELP describes the directives understood by a console.
const HELP = `Directives:
  :sublambdas NAME   define macros (one "name lambda" per line) expanded by command NAME
  :hygienic NAME     as :sublambdas, but renaming variables assigned within each macro
  :NAME              run the following cell through command NAME
  :show NAME         print the following cell as transformed by command NAME
  :eval EXPR         evaluate an expression and print its value
  :commands          list the available commands
  :help              show this message
  :quit              leave the session
Multi-line entries are terminated by a blank line.  Anything else is executed
directly, with the value of a lone expression being printed.`

// ErrQuit is returned when the user asks to leave the console.
var ErrQuit = errors.New("quit")

// Console implements the line-oriented protocol for driving a session
// interactively.  Lines are fed in one at a time, and either act immediately
// or are collected until a blank line completes the entry.
type Console struct {
	session *Session
	out     io.Writer
	// Action to perform with the collected lines, or nil if none pending.
	pending func(string) error
	lines   []string
}

// NewConsole constructs a console for a given session, whose responses go to
// a given writer.
func NewConsole(session *Session, out io.Writer) *Console {
	return &Console{session, out, nil, nil}
}

// Prompt returns the prompt appropriate for the next line.
func (c *Console) Prompt() string {
	if c.pending != nil {
		return CONTINUATION_PROMPT
	}
	//
	return PROMPT
}

// Input feeds one line to the console.  Any error arising from the line (or
// the entry it completes) is returned, though the console remains usable
// afterwards.  ErrQuit signals that the user wants to leave.
func (c *Console) Input(line string) error {
	if c.pending != nil {
		if strings.TrimSpace(line) != "" {
			c.lines = append(c.lines, line)
			return nil
		}
		//
		return c.Flush()
	}
	//
	trimmed := strings.TrimSpace(line)
	//
	switch {
	case trimmed == "":
		return nil
	case strings.HasPrefix(trimmed, ":"):
		return c.directive(trimmed[1:])
	case strings.HasSuffix(trimmed, ":"):
		// Start of a compound statement
		c.collect(c.session.Exec)
		c.lines = append(c.lines, line)
		//
		return nil
	default:
		return c.execute(line)
	}
}

// Flush completes any entry currently being collected.
func (c *Console) Flush() error {
	if c.pending == nil {
		return nil
	}
	//
	action, text := c.pending, strings.Join(c.lines, "\n")+"\n"
	c.pending, c.lines = nil, nil
	//
	return action(text)
}

// Reset discards any entry currently being collected.
func (c *Console) Reset() {
	c.pending, c.lines = nil, nil
}

func (c *Console) collect(action func(string) error) {
	c.pending = action
	c.lines = nil
}

func (c *Console) directive(text string) error {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)
	//
	switch name {
	case "quit", "exit":
		return ErrQuit
	case "help":
		_, err := fmt.Fprintln(c.out, HELP)
		return err
	case "commands":
		_, err := fmt.Fprintln(c.out, strings.Join(c.session.Commands(), " "))
		return err
	case "eval":
		return c.evaluate(arg)
	case "sublambdas", "hygienic":
		if arg == "" {
			return fmt.Errorf(":%s requires a command name", name)
		}
		//
		hygienic := name == "hygienic"
		//
		c.collect(func(definitions string) error {
			pipeline, err := c.session.DefineMacros(arg, definitions, hygienic)
			if err == nil {
				_, err = fmt.Fprintf(c.out, "defined %s %s\n", arg, pipeline.String())
			}
			//
			return err
		})
	case "show":
		if !c.session.HasCommand(arg) {
			return fmt.Errorf("unknown command %s", arg)
		}
		//
		c.collect(func(cell string) error {
			text, err := c.session.Show(arg, cell)
			if err == nil {
				_, err = fmt.Fprint(c.out, text)
			}
			//
			return err
		})
	default:
		if !c.session.HasCommand(name) {
			return fmt.Errorf("unknown directive :%s (try :help)", name)
		}
		//
		c.collect(func(cell string) error {
			return c.session.RunCell(name, cell)
		})
	}
	//
	return nil
}

// Execute a single line, printing its value if it is an expression.
func (c *Console) execute(line string) error {
	if _, errs := parser.ParseExpressionString(line); len(errs) == 0 {
		return c.evaluate(line)
	}
	//
	return c.session.Exec(line + "\n")
}

func (c *Console) evaluate(line string) error {
	value, err := c.session.Eval(line)
	//
	if err == nil && value != nil {
		_, err = fmt.Fprintln(c.out, interp.Repr(value))
	}
	//
	return err
}
