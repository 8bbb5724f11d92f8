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
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/go-sublambda/pkg/lang/ast"
)

func (ip *Interpreter) eval(expr ast.Expr, frame *Frame) (Value, error) {
	value, err := ip.evalExpr(expr, frame)
	// Attach a location to any error not already located.
	if err != nil {
		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			return nil, ip.runtimeError(expr, err.Error())
		}
	}
	//
	return value, err
}

func (ip *Interpreter) evalExpr(expr ast.Expr, frame *Frame) (Value, error) {
	switch e := expr.(type) {
	case *ast.Name:
		return ip.lookup(e.Id, frame)
	case *ast.Constant:
		return e.Value, nil
	case *ast.BinOp:
		return ip.evalBinOp(e, frame)
	case *ast.UnaryOp:
		return ip.evalUnaryOp(e, frame)
	case *ast.Compare:
		return ip.evalCompare(e, frame)
	case *ast.BoolOp:
		return ip.evalBoolOp(e, frame)
	case *ast.Call:
		return ip.evalCall(e, frame)
	case *ast.Lambda:
		return &Function{
			Name:    "<lambda>",
			Params:  e.Params,
			Expr:    e.Body,
			locals:  lambdaLocals(e),
			closure: frame,
		}, nil
	case *ast.NamedExpr:
		value, err := ip.eval(e.Value, frame)
		if err == nil {
			frame.vars[e.Target.Id] = value
		}
		//
		return value, err
	case *ast.Tuple:
		elts, err := ip.evalAll(e.Elts, frame)
		return Tuple(elts), err
	case *ast.List:
		elts, err := ip.evalAll(e.Elts, frame)
		if err != nil {
			return nil, err
		}
		//
		return &List{elts}, nil
	case *ast.Subscript:
		return ip.evalSubscript(e, frame)
	default:
		return nil, fmt.Errorf("unknown expression (%T)", expr)
	}
}

func (ip *Interpreter) evalAll(exprs []ast.Expr, frame *Frame) ([]Value, error) {
	values := make([]Value, len(exprs))
	//
	for i, e := range exprs {
		v, err := ip.eval(e, frame)
		if err != nil {
			return nil, err
		}
		//
		values[i] = v
	}
	//
	return values, nil
}

func (ip *Interpreter) evalCall(e *ast.Call, frame *Frame) (Value, error) {
	fn, err := ip.eval(e.Func, frame)
	if err != nil {
		return nil, err
	}
	//
	args, err := ip.evalAll(e.Args, frame)
	if err != nil {
		return nil, err
	}
	//
	var kwargs map[string]Value
	//
	if len(e.Keywords) > 0 {
		kwargs = make(map[string]Value)
		//
		for _, kw := range e.Keywords {
			if _, ok := kwargs[kw.Arg]; ok {
				return nil, fmt.Errorf("keyword argument repeated: %s", kw.Arg)
			}
			//
			if kwargs[kw.Arg], err = ip.eval(kw.Value, frame); err != nil {
				return nil, err
			}
		}
	}
	//
	return ip.Apply(fn, args, kwargs)
}

func (ip *Interpreter) evalBoolOp(e *ast.BoolOp, frame *Frame) (Value, error) {
	lhs, err := ip.eval(e.Left, frame)
	if err != nil {
		return nil, err
	}
	// Short circuit
	switch {
	case e.Op == ast.AND && !Truthy(lhs):
		return lhs, nil
	case e.Op == ast.OR && Truthy(lhs):
		return lhs, nil
	}
	//
	return ip.eval(e.Right, frame)
}

func (ip *Interpreter) evalUnaryOp(e *ast.UnaryOp, frame *Frame) (Value, error) {
	operand, err := ip.eval(e.Operand, frame)
	if err != nil {
		return nil, err
	} else if e.Op == ast.NOT {
		return !Truthy(operand), nil
	}
	//
	n, ok := asInt(operand)
	if !ok {
		return nil, fmt.Errorf("bad operand type for unary %s: '%s'", e.Op.String(), TypeName(operand))
	} else if e.Op == ast.NEG {
		return -n, nil
	}
	//
	return n, nil
}

func (ip *Interpreter) evalCompare(e *ast.Compare, frame *Frame) (Value, error) {
	lhs, err := ip.eval(e.Left, frame)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := ip.eval(e.Right, frame)
	if err != nil {
		return nil, err
	}
	//
	switch e.Op {
	case ast.EQ:
		return Equal(lhs, rhs), nil
	case ast.NEQ:
		return !Equal(lhs, rhs), nil
	}
	//
	cmp, err := compare(lhs, rhs)
	if err != nil {
		return nil, fmt.Errorf("'%s' not supported between instances of '%s' and '%s'", e.Op.String(),
			TypeName(lhs), TypeName(rhs))
	}
	//
	switch e.Op {
	case ast.LT:
		return cmp < 0, nil
	case ast.LTEQ:
		return cmp <= 0, nil
	case ast.GT:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

// Order two values of the same (orderable) type.
func compare(lhs Value, rhs Value) (int, error) {
	if l, ok := asInt(lhs); ok {
		if r, ok := asInt(rhs); ok {
			switch {
			case l < r:
				return -1, nil
			case l > r:
				return 1, nil
			default:
				return 0, nil
			}
		}
	} else if l, ok := lhs.(string); ok {
		if r, ok := rhs.(string); ok {
			return strings.Compare(l, r), nil
		}
	}
	//
	return 0, errors.New("unordered")
}

func (ip *Interpreter) evalBinOp(e *ast.BinOp, frame *Frame) (Value, error) {
	lhs, err := ip.eval(e.Left, frame)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := ip.eval(e.Right, frame)
	if err != nil {
		return nil, err
	}
	//
	return BinaryOperation(e.Op, lhs, rhs)
}

// BinaryOperation applies a binary operator to two values.
func BinaryOperation(op ast.BinaryOp, lhs Value, rhs Value) (Value, error) {
	l, lok := asInt(lhs)
	r, rok := asInt(rhs)
	//
	if lok && rok {
		return arithmetic(op, l, r)
	}
	//
	switch op {
	case ast.ADD:
		switch l := lhs.(type) {
		case string:
			if r, ok := rhs.(string); ok {
				return l + r, nil
			}
		case Tuple:
			if r, ok := rhs.(Tuple); ok {
				return append(append(Tuple{}, l...), r...), nil
			}
		case *List:
			if r, ok := rhs.(*List); ok {
				return &List{append(append([]Value{}, l.Elts...), r.Elts...)}, nil
			}
		}
	case ast.MUL:
		if s, ok := lhs.(string); ok && rok {
			return strings.Repeat(s, int(max(r, 0))), nil
		} else if s, ok := rhs.(string); ok && lok {
			return strings.Repeat(s, int(max(l, 0))), nil
		}
	}
	//
	return nil, fmt.Errorf("unsupported operand type(s) for %s: '%s' and '%s'", op.String(), TypeName(lhs),
		TypeName(rhs))
}

func arithmetic(op ast.BinaryOp, l int64, r int64) (Value, error) {
	switch op {
	case ast.ADD:
		return l + r, nil
	case ast.SUB:
		return l - r, nil
	case ast.MUL:
		return l * r, nil
	case ast.FLOORDIV:
		if r == 0 {
			return nil, errors.New("integer division or modulo by zero")
		}
		//
		q := l / r
		// Round towards negative infinity
		if (l%r != 0) && ((l < 0) != (r < 0)) {
			q--
		}
		//
		return q, nil
	case ast.MOD:
		if r == 0 {
			return nil, errors.New("integer division or modulo by zero")
		}
		//
		m := l % r
		// Result takes the sign of the divisor
		if m != 0 && ((m < 0) != (r < 0)) {
			m += r
		}
		//
		return m, nil
	case ast.POW:
		if r < 0 {
			return nil, errors.New("negative exponent not supported")
		}
		//
		acc := int64(1)
		// Square and multiply
		for ; r > 0; r >>= 1 {
			if r&1 == 1 {
				acc *= l
			}
			//
			l *= l
		}
		//
		return acc, nil
	default:
		return nil, fmt.Errorf("unknown operator %s", op.String())
	}
}

func (ip *Interpreter) evalSubscript(e *ast.Subscript, frame *Frame) (Value, error) {
	value, err := ip.eval(e.Value, frame)
	if err != nil {
		return nil, err
	}
	//
	index, err := ip.eval(e.Index, frame)
	if err != nil {
		return nil, err
	}
	//
	var elts []Value
	//
	switch v := value.(type) {
	case Tuple:
		elts = v
	case *List:
		elts = v.Elts
	case string:
		if i, ok := asInt(index); ok {
			if i, ok = normalise(i, len(v)); ok {
				return v[i : i+1], nil
			}
			//
			return nil, errors.New("string index out of range")
		}
		//
		return nil, fmt.Errorf("string indices must be integers, not '%s'", TypeName(index))
	default:
		return nil, fmt.Errorf("'%s' object is not subscriptable", TypeName(value))
	}
	//
	i, ok := asInt(index)
	if !ok {
		return nil, fmt.Errorf("%s indices must be integers, not '%s'", TypeName(value), TypeName(index))
	} else if i, ok = normalise(i, len(elts)); !ok {
		return nil, fmt.Errorf("%s index out of range", TypeName(value))
	}
	//
	return elts[i], nil
}

// Normalise a (possibly negative) index against a sequence of a given length.
func normalise(index int64, length int) (int64, bool) {
	if index < 0 {
		index += int64(length)
	}
	//
	return index, index >= 0 && index < int64(length)
}

// Booleans behave as integers in arithmetic.
func asInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		//
		return 0, true
	default:
		return 0, false
	}
}
