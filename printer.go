// printer.go — deterministic value formatting for print() and the REPL.
//
// Grounded on the teacher's printer.go (quoted strings, stable key order,
// nested indentation), rebuilt around VirtoLang's own value tags. Whole-number
// floats render with a trailing ".0" (§8's `print(6/2)` -> "3.0"), matching
// FizzBuzz-style scenarios that otherwise expect integer-looking output to
// stay integer.
package virtolang

import (
	"strconv"
	"strings"
)

// FormatValue renders v the way print() and the REPL display values:
// strings unquoted at top level (quoted when nested inside a container),
// whole-number floats with a trailing ".0", containers with stable ordering.
func FormatValue(v Value) string {
	if v.Tag == VString {
		return v.Data.(string)
	}
	return formatNested(v)
}

func formatNested(v Value) string {
	switch v.Tag {
	case VNull:
		return "null"
	case VBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VFloat:
		return formatFloat(v.Data.(float64))
	case VString:
		return strconv.Quote(v.Data.(string))
	case VList:
		elems := v.Data.(*ListObject).Elems
		return "[" + joinFormatted(elems) + "]"
	case VTuple:
		elems := v.Data.([]Value)
		s := joinFormatted(elems)
		if len(elems) == 1 {
			s += ","
		}
		return "(" + s + ")"
	case VSet:
		items := v.Data.(*SetObject).Items()
		if len(items) == 0 {
			return "set()"
		}
		return "{" + joinFormatted(items) + "}"
	case VDict:
		d := v.Data.(*DictObject)
		if d.Len() == 0 {
			return "dict()"
		}
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range d.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatNested(k))
			b.WriteString(": ")
			b.WriteString(formatNested(d.ValueAt(i)))
		}
		b.WriteByte('}')
		return b.String()
	case VFunc:
		f := v.Data.(*Func)
		if f.Name != "" {
			return "<function " + f.Name + ">"
		}
		return "<function>"
	case VBuiltin:
		return "<builtin " + v.Data.(*Builtin).Name + ">"
	case VTask:
		return "<task>"
	case VError:
		ev := v.Data.(*ErrorValue)
		return ev.Err.Msg
	case VFile:
		return "<file " + v.Data.(*FileHandle).Name + ">"
	default:
		return "<unknown>"
	}
}

func joinFormatted(vs []Value) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatNested(v))
	}
	return b.String()
}

// formatFloat keeps a trailing ".0" for whole numbers, the way the §8
// scenario `print(6/2)` -> "3.0" requires, while still printing fractional
// values in their shortest round-trip form.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
