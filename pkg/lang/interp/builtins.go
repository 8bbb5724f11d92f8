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
	"strings"
)

// BUILTINS lists the natively implemented functions available to every
// program.
var BUILTINS = []*Builtin{
	{"print", builtinPrint},
	{"len", builtinLen},
}

func builtinPrint(ip *Interpreter, args []Value) (Value, error) {
	strs := make([]string, len(args))
	//
	for i, arg := range args {
		strs[i] = Str(arg)
	}
	//
	if _, err := fmt.Fprintln(ip.out, strings.Join(strs, " ")); err != nil {
		return nil, err
	}
	//
	return nil, nil
}

func builtinLen(_ *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len() takes exactly one argument (%d given)", len(args))
	}
	//
	switch v := args[0].(type) {
	case string:
		return int64(len(v)), nil
	case Tuple:
		return int64(len(v)), nil
	case *List:
		return int64(len(v.Elts)), nil
	default:
		return nil, fmt.Errorf("object of type '%s' has no len()", TypeName(v))
	}
}
