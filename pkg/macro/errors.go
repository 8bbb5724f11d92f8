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

	"github.com/consensys/go-sublambda/pkg/util/source"
)

// ArityError signals a call site supplying a different number of arguments
// than the formal parameters of the macro being invoked.
type ArityError struct {
	Macro    string
	Expected int
	Actual   int
	// Location of the offending call, if known.
	Location *source.SyntaxError
}

// Message returns the error message without any location information.
func (e *ArityError) Message() string {
	return fmt.Sprintf("macro %s expects %d argument(s), but %d given", e.Macro, e.Expected, e.Actual)
}

func (e *ArityError) Error() string {
	if e.Location != nil {
		return e.Location.Error()
	}
	//
	return e.Message()
}

// ShapeError signals a macro definition which is not a single anonymous
// function literal.
type ShapeError struct {
	Macro string
	// Kind of node found in place of the expected lambda.
	Found string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("macro %s must be a lambda expression (found %s)", e.Macro, e.Found)
}

// ParseError carries the syntax errors reported by the parser for some text
// handed to the macro engine.  The errors are reported unchanged.
type ParseError struct {
	Errors []source.SyntaxError
}

func (e *ParseError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "syntax error"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
	}
}
