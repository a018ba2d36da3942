// evaluator.go — the tree-walking core: a function from (AST node,
// environment) to a value-or-raised-error, and for statements, to a control
// signal (§4.3). Control flow is threaded by return value rather than by
// panic/recover: return and raise travel as signal values, and runtime
// errors as *VirtoError returns. The only recover is Run's defensive one
// (runtime.go); task goroutines and builtin call sites have none.
package virtolang

import "fmt"

// signalKind distinguishes the three control-flow outcomes of executing a
// statement per the Glossary's "Signal" entry.
type signalKind int

const (
	sigNormal signalKind = iota
	sigReturn
	sigRaised
)

type signal struct {
	kind  signalKind
	value Value       // populated for sigReturn
	err   *VirtoError // populated for sigRaised
}

var normalSignal = signal{kind: sigNormal}

func returnSignal(v Value) signal  { return signal{kind: sigReturn, value: v} }
func raisedSignal(e *VirtoError) signal { return signal{kind: sigRaised, err: e} }

// frame carries the two environments the evaluator needs at every call:
// global (the boundary SetOrCreate must not write past) and current (the
// nearest function frame presently executing, or global at top level).
type frame struct {
	global  *Env
	current *Env
}

// evalExpr evaluates an expression node against env, returning either a
// value or a raised error (never both).
func (ip *Interpreter) evalExpr(e Expr, fr frame, env *Env) (Value, *VirtoError) {
	switch n := e.(type) {
	case *IntLit:
		return VInteger(n.Value), nil
	case *FloatLit:
		return VFloating(n.Value), nil
	case *StringLit:
		return VStr(n.Value), nil
	case *BoolLit:
		return VBoolean(n.Value), nil
	case *NullLit:
		return Null, nil

	case *Ident:
		if v, ok := env.Get(n.Name); ok {
			return v, nil
		}
		return Null, errNameError(fmt.Sprintf("name %q is not defined", n.Name), n.Span)

	case *ListLit:
		elems := make([]Value, 0, len(n.Elems))
		for _, el := range n.Elems {
			v, err := ip.evalExpr(el, fr, env)
			if err != nil {
				return Null, err
			}
			elems = append(elems, v)
		}
		return VListVal(elems), nil

	case *Unary:
		return ip.evalUnary(n, fr, env)
	case *Binary:
		return ip.evalBinary(n, fr, env)

	case *Call:
		return ip.evalCall(n, fr, env)

	case *Index:
		recv, err := ip.evalExpr(n.Recv, fr, env)
		if err != nil {
			return Null, err
		}
		idx, err := ip.evalExpr(n.Index, fr, env)
		if err != nil {
			return Null, err
		}
		return indexGet(recv, idx, n.Span)

	case *Attribute:
		recv, err := ip.evalExpr(n.Recv, fr, env)
		if err != nil {
			return Null, err
		}
		return attributeGet(recv, n.Name, n.Span)

	case *AwaitExpr:
		target, err := ip.evalExpr(n.Expr, fr, env)
		if err != nil {
			return Null, err
		}
		return ip.await(target, n.Span)

	case *RunExpr:
		return ip.evalRun(n, fr, env)
	}
	return Null, errRuntimeError(fmt.Sprintf("unhandled expression node %T", e), e.span())
}

func (ip *Interpreter) evalUnary(n *Unary, fr frame, env *Env) (Value, *VirtoError) {
	v, err := ip.evalExpr(n.Expr, fr, env)
	if err != nil {
		return Null, err
	}
	switch n.Op {
	case "not":
		return VBoolean(!Truthy(v)), nil
	case "-":
		switch v.Tag {
		case VInt:
			return VInteger(-v.Data.(int64)), nil
		case VFloat:
			return VFloating(-v.Data.(float64)), nil
		}
		return Null, errTypeError(fmt.Sprintf("unary '-' does not support %s", TypeName(v)), n.Span)
	}
	return Null, errRuntimeError("unknown unary operator "+n.Op, n.Span)
}

func (ip *Interpreter) evalBinary(n *Binary, fr frame, env *Env) (Value, *VirtoError) {
	// and/or short-circuit, so the RHS must not be evaluated unless needed.
	if n.Op == "and" {
		l, err := ip.evalExpr(n.Left, fr, env)
		if err != nil {
			return Null, err
		}
		if !Truthy(l) {
			return l, nil
		}
		return ip.evalExpr(n.Right, fr, env)
	}
	if n.Op == "or" {
		l, err := ip.evalExpr(n.Left, fr, env)
		if err != nil {
			return Null, err
		}
		if Truthy(l) {
			return l, nil
		}
		return ip.evalExpr(n.Right, fr, env)
	}

	l, err := ip.evalExpr(n.Left, fr, env)
	if err != nil {
		return Null, err
	}
	r, err := ip.evalExpr(n.Right, fr, env)
	if err != nil {
		return Null, err
	}
	return applyBinaryOp(n.Op, l, r, n.Span)
}

func (ip *Interpreter) evalCall(n *Call, fr frame, env *Env) (Value, *VirtoError) {
	callee, err := ip.evalExpr(n.Callee, fr, env)
	if err != nil {
		return Null, err
	}
	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := ip.evalExpr(a, fr, env)
		if err != nil {
			return Null, err
		}
		args = append(args, v)
	}
	return ip.call(callee, args, n.Span)
}

// call dispatches to a user function, builtin, or raises TypeError, per
// §4.3's function-call steps 1-6.
func (ip *Interpreter) call(callee Value, args []Value, span Span) (Value, *VirtoError) {
	switch callee.Tag {
	case VBuiltin:
		b := callee.Data.(*Builtin)
		if len(args) < b.MinArity || (b.MaxArity >= 0 && len(args) > b.MaxArity) {
			return Null, errArgumentError(fmt.Sprintf("%s expects %s, got %d", b.Name, arityDesc(b), len(args)), span)
		}
		v, err := b.Fn(ip, args, span)
		if err != nil {
			if ve, ok := err.(*VirtoError); ok {
				ve.Trace = append(ve.Trace, span)
				return Null, ve
			}
			return Null, errRuntimeError(err.Error(), span)
		}
		return v, nil

	case VFunc:
		f := callee.Data.(*Func)
		if len(args) != len(f.Params) {
			return Null, errArgumentError(fmt.Sprintf("%s expects %d argument(s), got %d", funcLabel(f), len(f.Params), len(args)), span)
		}
		if f.Async {
			return ip.spawnTask(f, args), nil
		}
		return ip.runFunc(f, args, span)

	default:
		return Null, errTypeError(fmt.Sprintf("%s is not callable", TypeName(callee)), span)
	}
}

func funcLabel(f *Func) string {
	if f.Name == "" {
		return "function"
	}
	return f.Name
}

func arityDesc(b *Builtin) string {
	if b.MaxArity < 0 {
		return fmt.Sprintf("at least %d argument(s)", b.MinArity)
	}
	if b.MinArity == b.MaxArity {
		return fmt.Sprintf("%d argument(s)", b.MinArity)
	}
	return fmt.Sprintf("%d-%d argument(s)", b.MinArity, b.MaxArity)
}

// runFunc executes a synchronous function body to completion: step 4-5 of
// §4.3's call sequence. The new frame parents to the function's defining
// (closure) environment, never to the caller's frame.
func (ip *Interpreter) runFunc(f *Func, args []Value, callSpan Span) (Value, *VirtoError) {
	callFrame := NewEnv(f.Env)
	for i, p := range f.Params {
		callFrame.Define(p, args[i])
	}
	sub := frame{global: ip.Global, current: callFrame}
	sig := ip.execBlock(f.Body, sub, callFrame)
	switch sig.kind {
	case sigReturn:
		return sig.value, nil
	case sigRaised:
		sig.err.Trace = append(sig.err.Trace, callSpan)
		return Null, sig.err
	default:
		return Null, nil
	}
}

// execBlock runs a sequence of statements, short-circuiting on the first
// non-normal signal. Blocks do not introduce a new scope (§3.4): env is
// simply passed through unchanged.
func (ip *Interpreter) execBlock(stmts []Stmt, fr frame, env *Env) signal {
	for _, st := range stmts {
		sig := ip.execStmt(st, fr, env)
		if sig.kind != sigNormal {
			return sig
		}
	}
	return normalSignal
}

func (ip *Interpreter) execStmt(st Stmt, fr frame, env *Env) signal {
	switch n := st.(type) {
	case *AssignStmt:
		v, err := ip.evalExpr(n.Value, fr, env)
		if err != nil {
			return raisedSignal(err)
		}
		if err := ip.assign(n.Target, v, fr, env); err != nil {
			return raisedSignal(err)
		}
		return normalSignal

	case *ExprStmt:
		_, err := ip.evalExpr(n.Expr, fr, env)
		if err != nil {
			return raisedSignal(err)
		}
		return normalSignal

	case *Block:
		return ip.execBlock(n.Stmts, fr, env)

	case *IfStmt:
		for _, br := range n.Branches {
			v, err := ip.evalExpr(br.Cond, fr, env)
			if err != nil {
				return raisedSignal(err)
			}
			if Truthy(v) {
				return ip.execBlock(br.Body, fr, env)
			}
		}
		if n.Else != nil {
			return ip.execBlock(n.Else, fr, env)
		}
		return normalSignal

	case *WhileStmt:
		for {
			v, err := ip.evalExpr(n.Cond, fr, env)
			if err != nil {
				return raisedSignal(err)
			}
			if !Truthy(v) {
				return normalSignal
			}
			sig := ip.execBlock(n.Body, fr, env)
			if sig.kind != sigNormal {
				return sig
			}
		}

	case *ForStmt:
		iterVal, err := ip.evalExpr(n.Iter, fr, env)
		if err != nil {
			return raisedSignal(err)
		}
		items, ierr := iterate(iterVal, n.Span)
		if ierr != nil {
			return raisedSignal(ierr)
		}
		for _, item := range items {
			env.SetOrCreate(fr.global, fr.current, n.Var, item)
			sig := ip.execBlock(n.Body, fr, env)
			if sig.kind != sigNormal {
				return sig
			}
		}
		return normalSignal

	case *ReturnStmt:
		if n.Value == nil {
			return returnSignal(Null)
		}
		v, err := ip.evalExpr(n.Value, fr, env)
		if err != nil {
			return raisedSignal(err)
		}
		return returnSignal(v)

	case *RaiseStmt:
		v, err := ip.evalExpr(n.Value, fr, env)
		if err != nil {
			return raisedSignal(err)
		}
		if v.Tag != VError {
			return raisedSignal(errTypeError("raise requires an error value", n.Span))
		}
		ve := v.Data.(*ErrorValue).Err
		ve.Trace = append(ve.Trace, n.Span)
		return raisedSignal(ve)

	case *TryStmt:
		return ip.execTry(n, fr, env)

	case *ImportStmt:
		if err := ip.doImport(n, env); err != nil {
			return raisedSignal(err)
		}
		return normalSignal

	case *FuncDef:
		f := &Func{Name: n.Name, Params: n.Params, Body: n.Body, Env: env, Async: n.Async}
		env.SetOrCreate(fr.global, fr.current, n.Name, VFuncVal(f))
		return normalSignal

	case *WithStmt:
		return ip.execWith(n, fr, env)
	}
	return raisedSignal(errRuntimeError(fmt.Sprintf("unhandled statement node %T", st), st.span()))
}

// execWith implements `with (expr as name) { body }`: the resource is bound
// to name in env, the body runs, and the resource is closed on every exit
// path (normal, return, raised), matching the original interpreter's
// with-statement (resource.close() inside a finally-equivalent).
func (ip *Interpreter) execWith(n *WithStmt, fr frame, env *Env) signal {
	rv, err := ip.evalExpr(n.Resource, fr, env)
	if err != nil {
		return raisedSignal(err)
	}
	env.SetOrCreate(fr.global, fr.current, n.Var, rv)
	sig := ip.execBlock(n.Body, fr, env)
	closeResource(rv)
	return sig
}

// closeResource closes rv if it is a closeable resource (currently only
// file handles) and it is not already closed. Values without a close
// concept are left alone.
func closeResource(rv Value) {
	if rv.Tag != VFile {
		return
	}
	h := rv.Data.(*FileHandle)
	if h.Closed {
		return
	}
	h.Closed = true
	if h.Closer != nil {
		h.Closer()
	}
}

// execTry runs the protected block, dispatches a raised error to the first
// matching except clause, and always runs finally afterward, per §4.3's
// try/except/finally rule: a finally that itself returns or raises replaces
// any pending signal; otherwise the pending signal resumes after finally.
func (ip *Interpreter) execTry(n *TryStmt, fr frame, env *Env) signal {
	sig := ip.execBlock(n.Body, fr, env)

	if sig.kind == sigRaised {
		for _, ec := range n.Excepts {
			if !sig.err.MatchesTag(ec.Tag) {
				continue
			}
			if ec.As != "" {
				env.SetOrCreate(fr.global, fr.current, ec.As, VErrorVal(sig.err))
			}
			sig = ip.execBlock(ec.Body, fr, env)
			break
		}
	}

	if n.Finally != nil {
		fsig := ip.execBlock(n.Finally, fr, env)
		if fsig.kind != sigNormal {
			return fsig
		}
	}
	return sig
}

// assign implements the assignment target forms the grammar allows:
// identifier, attribute, and index (§3.2 explicitly excludes destructuring).
func (ip *Interpreter) assign(target Expr, v Value, fr frame, env *Env) *VirtoError {
	switch t := target.(type) {
	case *Ident:
		env.SetOrCreate(fr.global, fr.current, t.Name, v)
		return nil
	case *Index:
		recv, err := ip.evalExpr(t.Recv, fr, env)
		if err != nil {
			return err
		}
		idx, err := ip.evalExpr(t.Index, fr, env)
		if err != nil {
			return err
		}
		return indexSet(recv, idx, v, t.Span)
	case *Attribute:
		recv, err := ip.evalExpr(t.Recv, fr, env)
		if err != nil {
			return err
		}
		return attributeSet(recv, t.Name, v, t.Span)
	}
	return errRuntimeError("invalid assignment target", target.span())
}

// iterate returns the elements a for-loop walks over: list/tuple/set/string
// elements, or dict keys (§4.3).
func iterate(v Value, sp Span) ([]Value, *VirtoError) {
	switch v.Tag {
	case VList:
		return append([]Value(nil), v.Data.(*ListObject).Elems...), nil
	case VTuple:
		return v.Data.([]Value), nil
	case VSet:
		return v.Data.(*SetObject).Items(), nil
	case VDict:
		return v.Data.(*DictObject).Keys(), nil
	case VString:
		s := v.Data.(string)
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, VStr(string(r)))
		}
		return out, nil
	}
	return nil, errTypeError(fmt.Sprintf("%s is not iterable", TypeName(v)), sp)
}
