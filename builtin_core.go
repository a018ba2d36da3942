// builtin_core.go — the minimal standard library registered on Core (§4.9,
// supplemented per SPEC_FULL.md §4: without print/range/Error none of the
// documented end-to-end scenarios can run).
//
// Grounded on the teacher's registerStandardBuiltins shape (one function
// per built-in, registered into a frame by name with declared arity),
// rebuilt around VirtoLang's own Builtin{MinArity,MaxArity,Fn} contract.
package virtolang

import (
	"fmt"
	"math"
	"strconv"
)

func reg(env *Env, name string, min, max int, fn BuiltinFn) {
	env.Define(name, VBuiltinVal(&Builtin{Name: name, MinArity: min, MaxArity: max, Fn: fn}))
}

// registerBuiltins installs the entire built-in surface onto Core.
func registerBuiltins(core *Env) {
	registerCoreBuiltins(core)
	registerStringBuiltins(core)
	registerStdlibBuiltins(core)
}

func registerCoreBuiltins(core *Env) {
	reg(core, "print", 0, -1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = FormatValue(a)
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += " "
			}
			out += p
		}
		fmt.Fprintln(ip.Stdout, out)
		return Null, nil
	})

	reg(core, "len", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		v := args[0]
		switch v.Tag {
		case VString:
			return VInteger(int64(len([]rune(v.Data.(string))))), nil
		case VList:
			return VInteger(int64(len(v.Data.(*ListObject).Elems))), nil
		case VTuple:
			return VInteger(int64(len(v.Data.([]Value)))), nil
		case VDict:
			return VInteger(int64(v.Data.(*DictObject).Len())), nil
		case VSet:
			return VInteger(int64(v.Data.(*SetObject).Len())), nil
		}
		return Null, errTypeError(fmt.Sprintf("%s has no len()", TypeName(v)), sp)
	})

	reg(core, "range", 1, 3, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		var start, stop, step int64 = 0, 0, 1
		ints := make([]int64, len(args))
		for i, a := range args {
			if a.Tag != VInt {
				return Null, errTypeError("range() arguments must be int", sp)
			}
			ints[i] = a.Data.(int64)
		}
		switch len(ints) {
		case 1:
			stop = ints[0]
		case 2:
			start, stop = ints[0], ints[1]
		case 3:
			start, stop, step = ints[0], ints[1], ints[2]
		}
		if step == 0 {
			return Null, errArgumentError("range() step must not be zero", sp)
		}
		var out []Value
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, VInteger(i))
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, VInteger(i))
			}
		}
		return VListVal(out), nil
	})

	reg(core, "Error", 1, 2, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		if args[0].Tag != VString {
			return Null, errTypeError("Error() message must be a string", sp)
		}
		tag := ""
		if len(args) == 2 {
			if args[1].Tag != VString {
				return Null, errTypeError("Error() tag must be a string", sp)
			}
			tag = args[1].Data.(string)
		}
		return VErrorVal(&VirtoError{Kind: KindError, Tag: tag, Msg: args[0].Data.(string), Span: sp}), nil
	})

	reg(core, "type", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return VStr(TypeName(args[0])), nil
	})

	reg(core, "str", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return VStr(FormatValue(args[0])), nil
	})

	reg(core, "int", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		v := args[0]
		switch v.Tag {
		case VInt:
			return v, nil
		case VFloat:
			return VInteger(int64(v.Data.(float64))), nil
		case VBool:
			if v.Data.(bool) {
				return VInteger(1), nil
			}
			return VInteger(0), nil
		case VString:
			i, err := strconv.ParseInt(v.Data.(string), 10, 64)
			if err != nil {
				return Null, errTypeError("invalid literal for int(): "+v.Data.(string), sp)
			}
			return VInteger(i), nil
		}
		return Null, errTypeError(fmt.Sprintf("int() not supported on %s", TypeName(v)), sp)
	})

	reg(core, "float", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		v := args[0]
		switch v.Tag {
		case VFloat:
			return v, nil
		case VInt:
			return VFloating(float64(v.Data.(int64))), nil
		case VString:
			f, err := strconv.ParseFloat(v.Data.(string), 64)
			if err != nil {
				return Null, errTypeError("invalid literal for float(): "+v.Data.(string), sp)
			}
			return VFloating(f), nil
		}
		return Null, errTypeError(fmt.Sprintf("float() not supported on %s", TypeName(v)), sp)
	})

	reg(core, "sleep", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		if !isNumeric(args[0]) {
			return Null, errTypeError("sleep() requires a number of seconds", sp)
		}
		return ip.sleepTask(asFloat(args[0])), nil
	})

	reg(core, "dict", 0, 0, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return VDictVal(NewDict()), nil
	})
	reg(core, "set", 0, -1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s := NewSet()
		for _, a := range args {
			s.Add(a)
		}
		return VSetVal(s), nil
	})
	reg(core, "tuple", 0, -1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return VTupleVal(args), nil
	})
	reg(core, "list", 0, -1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return VListVal(append([]Value(nil), args...)), nil
	})

	reg(core, "abs", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		v := args[0]
		switch v.Tag {
		case VInt:
			i := v.Data.(int64)
			if i < 0 {
				i = -i
			}
			return VInteger(i), nil
		case VFloat:
			return VFloating(math.Abs(v.Data.(float64))), nil
		}
		return Null, errTypeError("abs() requires a number", sp)
	})

	reg(core, "min", 1, -1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return minmax(args, true, sp)
	})
	reg(core, "max", 1, -1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		return minmax(args, false, sp)
	})
}

func minmax(args []Value, wantMin bool, sp Span) (Value, error) {
	vals := args
	if len(args) == 1 && args[0].Tag == VList {
		vals = args[0].Data.(*ListObject).Elems
	}
	if len(vals) == 0 {
		return Null, errArgumentError("min()/max() requires at least one value", sp)
	}
	best := vals[0]
	for _, v := range vals[1:] {
		cmp, err := compareOp("<", v, best, sp)
		if err != nil {
			return Null, err
		}
		less := cmp.Data.(bool)
		if less == wantMin {
			best = v
		}
	}
	return best, nil
}

// lookupMethod resolves recv.name for the small set of built-in methods
// exposed on dict/list/set values (§4.9 leaves the concrete method
// surface implementation-defined).
func lookupMethod(recv Value, name string) (*Builtin, bool) {
	switch recv.Tag {
	case VDict:
		switch name {
		case "keys":
			return &Builtin{Name: "keys", MinArity: 0, MaxArity: 0, Fn: func(ip *Interpreter, args []Value, sp Span) (Value, error) {
				return VListVal(recv.Data.(*DictObject).Keys()), nil
			}}, true
		case "values":
			return &Builtin{Name: "values", MinArity: 0, MaxArity: 0, Fn: func(ip *Interpreter, args []Value, sp Span) (Value, error) {
				d := recv.Data.(*DictObject)
				out := make([]Value, d.Len())
				for i := range out {
					out[i] = d.ValueAt(i)
				}
				return VListVal(out), nil
			}}, true
		case "get":
			return &Builtin{Name: "get", MinArity: 1, MaxArity: 2, Fn: func(ip *Interpreter, args []Value, sp Span) (Value, error) {
				if v, ok := recv.Data.(*DictObject).Get(args[0]); ok {
					return v, nil
				}
				if len(args) == 2 {
					return args[1], nil
				}
				return Null, nil
			}}, true
		}
	case VList:
		switch name {
		case "append":
			return &Builtin{Name: "append", MinArity: 1, MaxArity: 1, Fn: func(ip *Interpreter, args []Value, sp Span) (Value, error) {
				lo := recv.Data.(*ListObject)
				lo.Elems = append(lo.Elems, args[0])
				return Null, nil
			}}, true
		}
	case VSet:
		switch name {
		case "add":
			return &Builtin{Name: "add", MinArity: 1, MaxArity: 1, Fn: func(ip *Interpreter, args []Value, sp Span) (Value, error) {
				recv.Data.(*SetObject).Add(args[0])
				return Null, nil
			}}, true
		}
	}
	return nil, false
}
