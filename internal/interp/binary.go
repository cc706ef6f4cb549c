package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

// evalBinaryExpr evaluates both operands unconditionally before dispatching
// on the operator — §4.5.4 deliberately gives `&&`/`||` no short-circuit
// semantics, so there is no special-casing of And/Or's operand order here.
func (e *Engine) evalBinaryExpr(ctx *tailFrame, scope *env.Environment, n *ast.BinaryExpr, source string) (value.Value, error) {
	left, err := e.evalExpr(ctx, scope, n.Left, source)
	if err != nil {
		return nil, err
	}
	if left, err = checkNotControl(left); err != nil {
		return nil, err
	}
	right, err := e.evalExpr(ctx, scope, n.Right, source)
	if err != nil {
		return nil, err
	}
	if right, err = checkNotControl(right); err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Pow, ast.Mod:
		v, err := value.Arith(n.Op, left, right)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return v, nil

	case ast.Gt, ast.Lt, ast.Gte, ast.Lte:
		c, err := value.Compare(left, right)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return value.Boolean(compareHolds(n.Op, c)), nil

	case ast.Eq:
		eq, err := value.Equal(left, right)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return value.Boolean(eq), nil

	case ast.Neq:
		eq, err := value.Equal(left, right)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return value.Boolean(!eq), nil

	case ast.And, ast.Or:
		lb, err := value.ToBool(left)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		rb, err := value.ToBool(right)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return value.Logical(n.Op == ast.And, lb, rb), nil
	}
	return nil, errors.New(errors.KindInternal, "unknown binary operator %d", n.Op).At(n.Position, source)
}

func compareHolds(op ast.BinaryOp, c int) bool {
	switch op {
	case ast.Gt:
		return c > 0
	case ast.Lt:
		return c < 0
	case ast.Gte:
		return c >= 0
	case ast.Lte:
		return c <= 0
	}
	return false
}
