package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

func (e *Engine) evalNumberLiteral(n *ast.NumberLiteral) value.Value {
	return value.Number(n.Value)
}

func (e *Engine) evalComplexLiteral(n *ast.ComplexLiteral) value.Value {
	return value.Complex{Re: n.Re, Im: n.Im}
}

func (e *Engine) evalStringLiteral(n *ast.StringLiteral) value.Value {
	return value.String(n.Value)
}

func (e *Engine) evalBoolLiteral(n *ast.BoolLiteral) value.Value {
	return value.Boolean(n.Value)
}

// checkNotControl guards a handler against the EarlyReturn/TailCall
// sentinels surfacing in a position where the language gives them no
// meaning (§3.1 invariant: they must never escape the call frame that
// introduced them).
func checkNotControl(v value.Value) (value.Value, error) {
	if value.IsControl(v) {
		return nil, errors.New(errors.KindInternal, "control sentinel %s escaped into a non-tail position", v.Kind())
	}
	return v, nil
}

func (e *Engine) evalArrayLiteral(ctx *tailFrame, scope *env.Environment, n *ast.ArrayLiteral, source string) (value.Value, error) {
	var elems []value.Value
	for _, el := range n.Elements {
		v, err := e.evalExpr(ctx, scope, el.Expr, source)
		if err != nil {
			return nil, err
		}
		if v, err = checkNotControl(v); err != nil {
			return nil, err
		}
		if el.Spread {
			spread, ok := value.Elements(v)
			if !ok {
				return nil, errors.New(errors.KindTypeMismatch, "cannot spread %s into an array literal", value.TypeName(v))
			}
			elems = append(elems, spread...)
			continue
		}
		elems = append(elems, v)
	}
	return value.PromoteArray(elems)
}

func (e *Engine) evalRecordLiteral(ctx *tailFrame, scope *env.Environment, n *ast.RecordLiteral, source string) (value.Value, error) {
	rec := value.Record{}
	seen := map[string]bool{}
	for _, f := range n.Fields {
		v, err := e.evalExpr(ctx, scope, f.Value, source)
		if err != nil {
			return nil, err
		}
		if v, err = checkNotControl(v); err != nil {
			return nil, err
		}
		if f.Spread {
			spreadRec, ok := value.Deref(v).(value.Record)
			if !ok {
				return nil, errors.New(errors.KindTypeMismatch, "cannot spread %s into a record literal", value.TypeName(v))
			}
			for _, sf := range spreadRec.Fields {
				rec = rec.WithField(sf.Name, sf.Value, sf.Mutable)
				seen[sf.Name] = true
			}
			continue
		}
		if seen[f.Name] {
			return nil, errors.New(errors.KindRedefined, "duplicate field %q in record literal", f.Name)
		}
		seen[f.Name] = true
		rec = rec.WithField(f.Name, v, f.Mutable)
	}
	return rec, nil
}

func (e *Engine) evalEdgeLiteral(ctx *tailFrame, scope *env.Environment, n *ast.EdgeLiteral, source string) (value.Value, error) {
	from, err := e.evalExpr(ctx, scope, n.From, source)
	if err != nil {
		return nil, err
	}
	to, err := e.evalExpr(ctx, scope, n.To, source)
	if err != nil {
		return nil, err
	}
	fromS, ok1 := value.Deref(from).(value.String)
	toS, ok2 := value.Deref(to).(value.String)
	if !ok1 || !ok2 {
		return nil, errors.New(errors.KindTypeMismatch, "edge endpoints must be Strings")
	}
	var props value.Record
	if n.Properties != nil {
		pv, err := e.evalRecordLiteral(ctx, scope, n.Properties, source)
		if err != nil {
			return nil, err
		}
		props = pv.(value.Record)
	}
	return value.Edge{From: string(fromS), To: string(toS), Directed: n.Directed, Properties: props}, nil
}

func (e *Engine) evalVariableDecl(ctx *tailFrame, scope *env.Environment, n *ast.VariableDecl, source string) (value.Value, error) {
	v, err := e.evalLambdaAware(ctx, scope, n.Value, n.Name, source)
	if err != nil {
		return nil, err
	}
	if v, err = checkNotControl(v); err != nil {
		return nil, err
	}
	if err := scope.Define(n.Name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) evalMutableDecl(ctx *tailFrame, scope *env.Environment, n *ast.MutableDecl, source string) (value.Value, error) {
	v, err := e.evalLambdaAware(ctx, scope, n.Value, n.Name, source)
	if err != nil {
		return nil, err
	}
	if v, err = checkNotControl(v); err != nil {
		return nil, err
	}
	ref := value.NewMutableRef(v)
	if err := scope.Define(n.Name, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// evalLambdaAware evaluates value, but if it is directly a lambda literal
// being bound by `let`/`mut name = (…) => …`, it threads name through as
// the statically-bound self name the TCO analyzer (C10) uses to recognize
// `name(…)` self-calls in addition to `rec(…)` (§4.4.3).
func (e *Engine) evalLambdaAware(ctx *tailFrame, scope *env.Environment, expr ast.Expression, name, source string) (value.Value, error) {
	if lam, ok := expr.(*ast.Lambda); ok {
		return e.evalLambda(scope, lam, name), nil
	}
	return e.evalExpr(ctx, scope, expr, source)
}

func (e *Engine) evalLambda(scope *env.Environment, n *ast.Lambda, selfName string) value.Value {
	return value.Function{
		Name:            selfName,
		Params:          n.Params,
		Body:            n.Body,
		Closure:         scope,
		IsTailRecursive: isTailRecursive(n.Body, selfName),
	}
}

func (e *Engine) evalVariableRef(scope *env.Environment, n *ast.VariableRef, source string) (value.Value, error) {
	v, ok := scope.Lookup(n.Name)
	if !ok {
		return nil, errors.New(errors.KindUndefined, "undefined variable %q", n.Name).At(n.Position, source)
	}
	return v, nil
}

func (e *Engine) evalSelfReference(scope *env.Environment, n *ast.SelfReference, source string) (value.Value, error) {
	v, ok := scope.Lookup("self")
	if !ok {
		return nil, errors.New(errors.KindUndefined, "`self` is not bound outside a method-style call").At(n.Position, source)
	}
	return v, nil
}

func (e *Engine) evalRecReference(scope *env.Environment, n *ast.RecReference, source string) (value.Value, error) {
	v, ok := scope.Lookup("rec")
	if !ok {
		return nil, errors.New(errors.KindUndefined, "`rec` is not bound outside a function body").At(n.Position, source)
	}
	return v, nil
}

func (e *Engine) evalImport(n *ast.Import) (value.Value, error) {
	mod, ok := e.modules[n.Module]
	if !ok {
		return nil, errors.New(errors.KindUndefined, "unknown module %q", n.Module)
	}
	for name, v := range mod {
		e.global.DefineOrReplace(name, v)
	}
	e.imported[n.Module] = true
	return value.Boolean(true), nil
}

func (e *Engine) evalExport(scope *env.Environment, n *ast.Export, source string) (value.Value, error) {
	v, ok := scope.Lookup(n.Name)
	if !ok {
		return nil, errors.New(errors.KindUndefined, "undefined variable %q", n.Name).At(n.Position, source)
	}
	e.exports[n.Name] = true
	return v, nil
}
