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
	"strconv"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
)

// Value represents a runtime value.  This is one of: int64, string, bool, nil
// (i.e. None), Tuple, *List, *Function or *Builtin.
type Value = any

// Tuple is an immutable sequence of values.
type Tuple []Value

// List is a mutable sequence of values.
type List struct {
	Elts []Value
}

// Function is a user-defined function, arising either from a "def" or from a
// lambda.  Exactly one of Body or Expr is set.
type Function struct {
	Name   string
	Params []string
	// Statements making up a declared function
	Body []ast.Stmt
	// Expression making up a lambda
	Expr ast.Expr
	// Names bound locally within this function
	locals map[string]bool
	// Frame in which this function was created
	closure *Frame
}

// Builtin is a function implemented natively.
type Builtin struct {
	Name string
	Fn   func(ip *Interpreter, args []Value) (Value, error)
}

// TypeName returns the name of the type of a given value, as used in error
// messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case string:
		return "str"
	case Tuple:
		return "tuple"
	case *List:
		return "list"
	case *Function, *Builtin:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Truthy determines whether a value counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v != ""
	case Tuple:
		return len(v) != 0
	case *List:
		return len(v.Elts) != 0
	default:
		return true
	}
}

// Repr renders a value in the form it would be written in source.
func Repr(v Value) string {
	switch v := v.(type) {
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
		return "'" + v + "'"
	case Tuple:
		if len(v) == 1 {
			return "(" + Repr(v[0]) + ",)"
		}
		//
		return "(" + reprAll(v) + ")"
	case *List:
		return "[" + reprAll(v.Elts) + "]"
	case *Function:
		return fmt.Sprintf("<function %s>", v.Name)
	case *Builtin:
		return fmt.Sprintf("<built-in function %s>", v.Name)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Str renders a value as it would be printed, which differs from Repr only for
// strings.
func Str(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	//
	return Repr(v)
}

func reprAll(values []Value) string {
	strs := make([]string, len(values))
	//
	for i, v := range values {
		strs[i] = Repr(v)
	}
	//
	return strings.Join(strs, ", ")
}

// Equal determines whether two values are equal.  Sequences are compared
// element-wise, whilst functions are equal only to themselves.
func Equal(lhs Value, rhs Value) bool {
	switch l := lhs.(type) {
	case Tuple:
		r, ok := rhs.(Tuple)
		return ok && equalAll(l, r)
	case *List:
		r, ok := rhs.(*List)
		return ok && equalAll(l.Elts, r.Elts)
	default:
		return lhs == rhs
	}
}

func equalAll(lhs []Value, rhs []Value) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if !Equal(lhs[i], rhs[i]) {
			return false
		}
	}
	//
	return true
}
