package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

func (e *Engine) evalUnaryExpr(ctx *tailFrame, scope *env.Environment, n *ast.UnaryExpr, source string) (value.Value, error) {
	v, err := e.evalExpr(ctx, scope, n.Operand, source)
	if err != nil {
		return nil, err
	}
	if v, err = checkNotControl(v); err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.Neg:
		// 0 - v reuses value.Arith's broadcasting/promotion ladder so
		// negation works uniformly over Number, Complex, Vector, and Tensor.
		r, err := value.Arith(ast.Sub, value.Number(0), v)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return r, nil
	case ast.Not:
		b, err := value.ToBool(v)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return value.Boolean(!b), nil
	}
	return nil, errors.New(errors.KindInternal, "unknown unary operator %d", n.Op).At(n.Position, source)
}
