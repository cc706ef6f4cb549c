package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/token"
	"github.com/soc-lang/soc/internal/value"
)

// evalCall implements §4.4.2's dispatch: a call whose callee is syntactically
// recognized (by the active tailFrame) as a self-call to the function
// currently being evaluated produces a TailCall sentinel instead of
// recursing through Go's call stack — applyFunction's trampoline is what
// actually loops on it. Every other call evaluates its callee and args and
// applies normally, whether or not it happens to be recursive.
func (e *Engine) evalCall(ctx *tailFrame, scope *env.Environment, n *ast.FunctionCall, source string) (value.Value, error) {
	if ctx != nil && ctx.active && isSelfCallNode(n, ctx.selfName) {
		args, err := e.evalArgs(ctx, scope, n.Args, source)
		if err != nil {
			return nil, err
		}
		return value.TailCall{Args: args}, nil
	}

	calleeVal, selfVal, err := e.resolveCallee(ctx, scope, n.Callee, source)
	if err != nil {
		return nil, err
	}
	if calleeVal, err = checkNotControl(calleeVal); err != nil {
		return nil, err
	}

	fn, ok := value.Deref(calleeVal).(value.Function)
	if !ok {
		return nil, errors.New(errors.KindNotCallable, "%s is not callable", value.TypeName(calleeVal)).At(n.Position, source)
	}

	args, err := e.evalArgs(ctx, scope, n.Args, source)
	if err != nil {
		return nil, err
	}

	return e.applyFunction(fn, args, selfVal, source, n.Position)
}

func (e *Engine) evalArgs(ctx *tailFrame, scope *env.Environment, exprs []ast.Expression, source string) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.evalExpr(ctx, scope, a, source)
		if err != nil {
			return nil, err
		}
		if v, err = checkNotControl(v); err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// resolveCallee evaluates a call's callee expression. A dotted callee
// (`record.method(...)`, §4.5.7 step 1) evaluates its target once, looks the
// method up as a Record field, and returns the target as self so
// applyFunction can inject it; any other callee form has no self.
func (e *Engine) resolveCallee(ctx *tailFrame, scope *env.Environment, callee ast.Expression, source string) (fn value.Value, self value.Value, err error) {
	if fa, ok := callee.(*ast.FieldAccess); ok {
		targetV, err := e.evalExpr(ctx, scope, fa.Target, source)
		if err != nil {
			return nil, nil, err
		}
		rec, ok := value.Deref(targetV).(value.Record)
		if !ok {
			return nil, nil, errors.New(errors.KindTypeMismatch, "cannot call method %q on %s", fa.Field, value.TypeName(targetV)).At(fa.Position, source)
		}
		v, ok := rec.Get(fa.Field)
		if !ok {
			return nil, nil, errors.New(errors.KindUndefined, "record has no field %q", fa.Field).At(fa.Position, source)
		}
		return v, targetV, nil
	}
	v, err := e.evalExpr(ctx, scope, callee, source)
	if err != nil {
		return nil, nil, err
	}
	return v, nil, nil
}

// applyFunction is the single entry point every call path funnels through:
// native built-ins dispatch straight to their Go implementation; user
// lambdas either run once (§4.4.4) or, when isTailRecursive flagged them at
// creation time, loop in the §4.4.3 trampoline instead of growing the Go
// call stack.
func (e *Engine) applyFunction(fn value.Function, args []value.Value, selfVal value.Value, source string, pos token.Position) (value.Value, error) {
	if fn.IsNative() {
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, errors.New(errors.KindArity, "function %q expects %d argument(s), got %d", fn.Name, fn.Arity, len(args)).At(pos, source)
		}
		v, err := fn.NativeFn(args)
		if err != nil {
			return nil, attachPos(err, pos, source)
		}
		return v, nil
	}

	if len(args) != len(fn.Params) {
		return nil, errors.New(errors.KindArity, "function %q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args)).At(pos, source)
	}

	closure, ok := fn.Closure.(*env.Environment)
	if !ok {
		return nil, errors.New(errors.KindInternal, "function closure is not an *env.Environment").At(pos, source)
	}

	if !fn.IsTailRecursive {
		return e.callOnce(fn, closure, args, selfVal, source)
	}

	curArgs := args
	iterations := 0
	for {
		scope := closure.PushScope()
		for i, p := range fn.Params {
			if err := scope.Define(p, curArgs[i]); err != nil {
				return nil, attachPos(err, pos, source)
			}
		}
		scope.DefineOrReplace("rec", fn)
		if selfVal != nil {
			scope.DefineOrReplace("self", selfVal)
		}

		ctx := &tailFrame{selfName: fn.Name, active: true}
		v, err := e.evalExpr(ctx, scope, fn.Body, source)
		if err != nil {
			return nil, err
		}

		if tc, ok := v.(value.TailCall); ok {
			if len(tc.Args) != len(fn.Params) {
				return nil, errors.New(errors.KindArity, "tail call to %q supplies %d argument(s), expected %d", fn.Name, len(tc.Args), len(fn.Params)).At(pos, source)
			}
			iterations++
			if e.iterationLimit > 0 && iterations > e.iterationLimit {
				return nil, errors.New(errors.KindIterationLimit, "tail-recursive call to %q exceeded configured iteration limit %d", fn.Name, e.iterationLimit).At(pos, source)
			}
			curArgs = tc.Args
			continue
		}
		if ret, ok := v.(value.EarlyReturn); ok {
			return ret.Inner, nil
		}
		return checkNotControl(v)
	}
}

// callOnce is the non-tail-recursive call path (§4.4.4): a fresh scope,
// params bound, `rec`/`self` injected, body evaluated once. A nested tail
// frame is never threaded in from the caller — evaluating fn.Body starts a
// brand new (inactive) tailFrame boundary, which is what keeps a TailCall
// sentinel produced deep inside fn's body from ever being mistaken for one
// belonging to whatever tail-recursive function happened to call it.
func (e *Engine) callOnce(fn value.Function, closure *env.Environment, args []value.Value, selfVal value.Value, source string) (value.Value, error) {
	scope := closure.PushScope()
	for i, p := range fn.Params {
		if err := scope.Define(p, args[i]); err != nil {
			return nil, err
		}
	}
	scope.DefineOrReplace("rec", fn)
	if selfVal != nil {
		scope.DefineOrReplace("self", selfVal)
	}

	v, err := e.evalExpr(nil, scope, fn.Body, source)
	if err != nil {
		return nil, err
	}
	if ret, ok := v.(value.EarlyReturn); ok {
		return ret.Inner, nil
	}
	return checkNotControl(v)
}
