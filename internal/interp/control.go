package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/token"
	"github.com/soc-lang/soc/internal/value"
)

// attachPos decorates err with a source position if it doesn't already
// carry one, so type/domain errors raised deep inside the value package
// still render a caret at the node that triggered them.
func attachPos(err error, pos token.Position, source string) error {
	if ee, ok := err.(*errors.EngineError); ok && !ee.HasPos {
		return ee.At(pos, source)
	}
	return err
}

func (e *Engine) evalIf(ctx *tailFrame, scope *env.Environment, n *ast.If, source string) (value.Value, error) {
	condV, err := e.evalExpr(ctx, scope, n.Cond, source)
	if err != nil {
		return nil, err
	}
	if condV, err = checkNotControl(condV); err != nil {
		return nil, err
	}
	b, err := value.ToBool(condV)
	if err != nil {
		return nil, attachPos(err, n.Position, source)
	}
	if b {
		return e.evalExpr(ctx, scope, n.Then, source)
	}
	if n.Else == nil {
		return value.Boolean(false), nil
	}
	return e.evalExpr(ctx, scope, n.Else, source)
}

func (e *Engine) evalWhile(ctx *tailFrame, scope *env.Environment, n *ast.WhileLoop, source string) (value.Value, error) {
	var result value.Value = value.Boolean(false)
	iterations := 0
	for {
		condV, err := e.evalExpr(ctx, scope, n.Cond, source)
		if err != nil {
			return nil, err
		}
		b, err := value.ToBool(condV)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		if !b {
			break
		}
		v, err := e.evalExpr(ctx, scope, n.Body, source)
		if err != nil {
			return nil, err
		}
		if ret, ok := v.(value.EarlyReturn); ok {
			return ret, nil
		}
		if v, err = checkNotControl(v); err != nil {
			return nil, err
		}
		result = v
		iterations++
		if e.iterationLimit > 0 && iterations >= e.iterationLimit {
			return nil, errors.New(errors.KindIterationLimit, "while loop exceeded configured iteration limit %d", e.iterationLimit).At(n.Position, source)
		}
	}
	return result, nil
}

func (e *Engine) evalPiecewise(ctx *tailFrame, scope *env.Environment, n *ast.Piecewise, source string) (value.Value, error) {
	for _, c := range n.Cases {
		condV, err := e.evalExpr(ctx, scope, c.Cond, source)
		if err != nil {
			return nil, err
		}
		if condV, err = checkNotControl(condV); err != nil {
			return nil, err
		}
		b, err := value.ToBool(condV)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		if b {
			return e.evalExpr(ctx, scope, c.Value, source)
		}
	}
	if n.Default != nil {
		return e.evalExpr(ctx, scope, n.Default, source)
	}
	return nil, errors.New(errors.KindPiecewiseMatch, "no piecewise case matched and no default was given").At(n.Position, source)
}

func (e *Engine) evalReturn(ctx *tailFrame, scope *env.Environment, n *ast.Return, source string) (value.Value, error) {
	v, err := e.evalExpr(ctx, scope, n.Value, source)
	if err != nil {
		return nil, err
	}
	// `return rec(...)` in tail position yields a TailCall the enclosing
	// TCO loop must still see; only non-tail-call results get boxed.
	if _, ok := v.(value.TailCall); ok {
		return v, nil
	}
	if v, err = checkNotControl(v); err != nil {
		return nil, err
	}
	return value.EarlyReturn{Inner: v}, nil
}

func (e *Engine) evalSequenceLike(ctx *tailFrame, scope *env.Environment, items []ast.Expression, source string) (value.Value, error) {
	var result value.Value = value.Boolean(false)
	for i, item := range items {
		v, err := e.evalExpr(ctx, scope, item, source)
		if err != nil {
			return nil, err
		}
		if ret, ok := v.(value.EarlyReturn); ok {
			return ret, nil
		}
		if i != len(items)-1 {
			if v, err = checkNotControl(v); err != nil {
				return nil, err
			}
		}
		result = v
	}
	return result, nil
}

func (e *Engine) evalDoBlock(ctx *tailFrame, scope *env.Environment, n *ast.DoBlock, source string) (value.Value, error) {
	child := scope.PushScope()
	return e.evalSequenceLike(ctx, child, n.Body.Items, source)
}
