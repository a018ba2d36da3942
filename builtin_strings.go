// builtin_strings.go — string built-ins (§4.9 supplement).
//
// upper/lower/title use golang.org/x/text/cases with language.Und rather
// than strings.ToUpper/ToLower, for the locale-aware casing the x/text
// package was pulled in for (SPEC_FULL.md §3).
package virtolang

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
	titleCaser = cases.Title(language.Und)
)

func registerStringBuiltins(core *Env) {
	reg(core, "upper", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s, err := mustString(args[0], "upper", sp)
		if err != nil {
			return Null, err
		}
		return VStr(upperCaser.String(s)), nil
	})
	reg(core, "lower", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s, err := mustString(args[0], "lower", sp)
		if err != nil {
			return Null, err
		}
		return VStr(lowerCaser.String(s)), nil
	})
	reg(core, "title", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s, err := mustString(args[0], "title", sp)
		if err != nil {
			return Null, err
		}
		return VStr(titleCaser.String(s)), nil
	})
	reg(core, "strip", 1, 1, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s, err := mustString(args[0], "strip", sp)
		if err != nil {
			return Null, err
		}
		return VStr(strings.TrimSpace(s)), nil
	})
	reg(core, "split", 1, 2, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s, err := mustString(args[0], "split", sp)
		if err != nil {
			return Null, err
		}
		sep := ""
		if len(args) == 2 {
			sep, err = mustString(args[1], "split", sp)
			if err != nil {
				return Null, err
			}
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(s)
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = VStr(p)
		}
		return VListVal(out), nil
	})
	reg(core, "join", 2, 2, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		sep, err := mustString(args[0], "join", sp)
		if err != nil {
			return Null, err
		}
		if args[1].Tag != VList {
			return Null, errTypeError("join() second argument must be a list", sp)
		}
		elems := args[1].Data.(*ListObject).Elems
		parts := make([]string, len(elems))
		for i, e := range elems {
			if e.Tag != VString {
				return Null, errTypeError("join() requires a list of strings", sp)
			}
			parts[i] = e.Data.(string)
		}
		return VStr(strings.Join(parts, sep)), nil
	})
	reg(core, "replace", 3, 3, func(ip *Interpreter, args []Value, sp Span) (Value, error) {
		s, err := mustString(args[0], "replace", sp)
		if err != nil {
			return Null, err
		}
		old, err := mustString(args[1], "replace", sp)
		if err != nil {
			return Null, err
		}
		newS, err := mustString(args[2], "replace", sp)
		if err != nil {
			return Null, err
		}
		return VStr(strings.ReplaceAll(s, old, newS)), nil
	})
}

func mustString(v Value, fn string, sp Span) (string, *VirtoError) {
	if v.Tag != VString {
		return "", errTypeError(fn+"() requires a string argument", sp)
	}
	return v.Data.(string), nil
}
