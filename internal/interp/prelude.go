package interp

import (
	"math"

	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/kernel"
	"github.com/soc-lang/soc/internal/token"
	"github.com/soc-lang/soc/internal/value"
)

// native builds a value.Function wrapping a Go closure, matching how
// WithModule-supplied builtins are shaped. arity -1 means variadic (no
// arity check at call time).
func native(name string, arity int, fn func(args []value.Value) (value.Value, error)) value.Function {
	return value.Function{Name: name, NativeFn: fn, Arity: arity}
}

// callValue applies fn (expected to be a value.Function) to args. Native
// callbacks have no surrounding source text or call-site position to
// attach to an error raised inside a user-supplied lambda; errors still
// carry their Kind and message, just without a caret.
func (e *Engine) callValue(fn value.Value, args []value.Value) (value.Value, error) {
	f, ok := value.Deref(fn).(value.Function)
	if !ok {
		return nil, errors.New(errors.KindNotCallable, "%s is not callable", value.TypeName(fn))
	}
	return e.applyFunction(f, args, nil, "", token.Position{})
}

// definePrelude registers the §4.5.6 higher-order functions and the
// scalar/sequence built-ins directly into scope (the engine's global
// environment), which is how every call resolves them: ordinary parent-chain
// lookup, no separate resolver tier (§4.5.7 — see DESIGN.md).
func (e *Engine) definePrelude(scope *env.Environment) {
	define := func(name string, fn value.Function) {
		scope.DefineOrReplace(name, fn)
	}

	define("map", native("map", -1, func(args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, errors.New(errors.KindArity, "map requires a function and at least one sequence")
		}
		seqs := make([][]value.Value, len(args)-1)
		minLen := -1
		for i, a := range args[1:] {
			elems, ok := value.Elements(a)
			if !ok {
				return nil, errors.New(errors.KindTypeMismatch, "map's sequence argument %d must be a sequence, got %s", i+1, value.TypeName(a))
			}
			seqs[i] = elems
			if minLen == -1 || len(elems) < minLen {
				minLen = len(elems)
			}
		}
		out := make([]value.Value, minLen)
		for i := 0; i < minLen; i++ {
			callArgs := make([]value.Value, len(seqs))
			for j, s := range seqs {
				callArgs[j] = s[i]
			}
			v, err := e.callValue(args[0], callArgs)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.FromElements(out), nil
	}))

	define("filter", native("filter", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[1])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "filter's second argument must be a sequence, got %s", value.TypeName(args[1]))
		}
		var out []value.Value
		for _, el := range elems {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return nil, err
			}
			keep, err := value.ToBool(v)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, el)
			}
		}
		return value.FromElements(out), nil
	}))

	define("reduce", native("reduce", 3, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[2])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "reduce's third argument must be a sequence, got %s", value.TypeName(args[2]))
		}
		acc := args[1]
		for _, el := range elems {
			v, err := e.callValue(args[0], []value.Value{acc, el})
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	}))

	define("pipe", native("pipe", -1, func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, errors.New(errors.KindArity, "pipe requires at least one argument")
		}
		fns := append([]value.Value(nil), args...)
		return native("pipe", 1, func(in []value.Value) (value.Value, error) {
			acc := in[0]
			for _, fn := range fns {
				v, err := e.callValue(fn, []value.Value{acc})
				if err != nil {
					return nil, err
				}
				acc = v
			}
			return acc, nil
		}), nil
	}))

	define("any", native("any", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[1])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "any's second argument must be a sequence, got %s", value.TypeName(args[1]))
		}
		for _, el := range elems {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return nil, err
			}
			b, err := value.ToBool(v)
			if err != nil {
				return nil, err
			}
			if b {
				return value.Boolean(true), nil
			}
		}
		return value.Boolean(false), nil
	}))

	define("all", native("all", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[1])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "all's second argument must be a sequence, got %s", value.TypeName(args[1]))
		}
		for _, el := range elems {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return nil, err
			}
			b, err := value.ToBool(v)
			if err != nil {
				return nil, err
			}
			if !b {
				return value.Boolean(false), nil
			}
		}
		return value.Boolean(true), nil
	}))

	define("find", native("find", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[1])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "find's second argument must be a sequence, got %s", value.TypeName(args[1]))
		}
		for _, el := range elems {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return nil, err
			}
			b, err := value.ToBool(v)
			if err != nil {
				return nil, err
			}
			if b {
				return el, nil
			}
		}
		return nil, errors.New(errors.KindNotFound, "find: no element satisfies the predicate")
	}))

	define("findIndex", native("findIndex", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[1])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "findIndex's second argument must be a sequence, got %s", value.TypeName(args[1]))
		}
		for i, el := range elems {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return nil, err
			}
			b, err := value.ToBool(v)
			if err != nil {
				return nil, err
			}
			if b {
				return value.Number(i), nil
			}
		}
		return value.Number(-1), nil
	}))

	define("count", native("count", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[1])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "count's second argument must be a sequence, got %s", value.TypeName(args[1]))
		}
		n := 0
		for _, el := range elems {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return nil, err
			}
			b, err := value.ToBool(v)
			if err != nil {
				return nil, err
			}
			if b {
				n++
			}
		}
		return value.Number(n), nil
	}))

	define("len", native("len", 1, func(args []value.Value) (value.Value, error) {
		v := value.Deref(args[0])
		if s, ok := v.(value.String); ok {
			return value.Number(len([]rune(string(s)))), nil
		}
		if r, ok := v.(value.Record); ok {
			return value.Number(len(r.Fields)), nil
		}
		elems, ok := value.Elements(v)
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "len is not defined on %s", value.TypeName(v))
		}
		return value.Number(len(elems)), nil
	}))

	define("push", native("push", 2, func(args []value.Value) (value.Value, error) {
		elems, ok := value.Elements(args[0])
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "push's first argument must be a sequence, got %s", value.TypeName(args[0]))
		}
		out := append(append([]value.Value{}, elems...), args[1])
		return value.FromElements(out), nil
	}))

	define("range", native("range", -1, func(args []value.Value) (value.Value, error) {
		var start, end float64
		switch len(args) {
		case 1:
			n, ok := value.Deref(args[0]).(value.Number)
			if !ok {
				return nil, errors.New(errors.KindTypeMismatch, "range's argument must be a Number")
			}
			start, end = 0, float64(n)
		case 2:
			s, ok1 := value.Deref(args[0]).(value.Number)
			n, ok2 := value.Deref(args[1]).(value.Number)
			if !ok1 || !ok2 {
				return nil, errors.New(errors.KindTypeMismatch, "range's arguments must be Numbers")
			}
			start, end = float64(s), float64(n)
		default:
			return nil, errors.New(errors.KindArity, "range expects 1 or 2 arguments, got %d", len(args))
		}
		if end <= start {
			return value.Vector{Data: []float64{}}, nil
		}
		out := make([]float64, 0, int(end-start))
		for x := start; x < end; x++ {
			out = append(out, x)
		}
		return value.Vector{Data: out}, nil
	}))

	define("zip", native("zip", 2, func(args []value.Value) (value.Value, error) {
		a, ok1 := value.Elements(args[0])
		b, ok2 := value.Elements(args[1])
		if !ok1 || !ok2 {
			return nil, errors.New(errors.KindTypeMismatch, "zip's arguments must be sequences")
		}
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			pair, err := value.PromoteArray([]value.Value{a[i], b[i]})
			if err != nil {
				return nil, err
			}
			out[i] = pair
		}
		return value.Sequence{Elements: out}, nil
	}))

	for name, kfn := range map[string]func(*handle.Table, handle.Handle) (handle.Handle, error){
		"sin":  kernel.Sin,
		"cos":  kernel.Cos,
		"tan":  kernel.Tan,
		"exp":  kernel.Exp,
		"ln":   kernel.Ln,
		"abs":  kernel.Abs,
		"sqrt": kernel.Sqrt,
	} {
		name, kfn := name, kfn
		define(name, native(name, 1, func(args []value.Value) (value.Value, error) {
			return e.viaUnaryKernel(args[0], kfn)
		}))
	}

	define("floor", native("floor", 1, scalarMathFn(math.Floor)))
	define("ceil", native("ceil", 1, scalarMathFn(math.Ceil)))
	define("round", native("round", 1, scalarMathFn(math.Round)))
}

func scalarMathFn(f func(float64) float64) func(args []value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		n, ok := value.Deref(args[0]).(value.Number)
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "expected a Number, got %s", value.TypeName(args[0]))
		}
		return value.Number(f(float64(n))), nil
	}
}

// viaUnaryKernel routes a prelude transcendental through the C9 kernel
// (which already implements the Number/Vector degrade-to-scalar split) via a
// transient handle, rather than re-implementing the same dispatch against
// math.* a second time.
func (e *Engine) viaUnaryKernel(v value.Value, kfn func(*handle.Table, handle.Handle) (handle.Handle, error)) (value.Value, error) {
	in := e.handles.Create(value.Deref(v))
	defer e.handles.Release(in)
	out, err := kfn(e.handles, in)
	if err != nil {
		return nil, err
	}
	defer e.handles.Release(out)
	return e.handles.Get(out)
}
