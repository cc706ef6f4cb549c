package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

// tailFrame threads the active tail-recursive call's self name through the
// evaluation of exactly one function body. It is intentionally NOT passed
// across a nested function application (see call.go's callOnce): each
// call establishes its own fresh tailFrame (or nil), which is what keeps a
// TailCall sentinel from ever being produced by, or escaping into, a
// different Function's body (§3.1 invariant).
type tailFrame struct {
	selfName string
	active   bool
}

// evalExpr is the C6 dispatch core: post-order, AST-node-kind dispatch to
// the C7 handler set. ctx may be nil outside of an active tail-recursive
// call.
func (e *Engine) evalExpr(ctx *tailFrame, scope *env.Environment, node ast.Expression, source string) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Program:
		return e.evalSequenceLike(ctx, scope, toExpressions(n.Statements), source)
	case *ast.NumberLiteral:
		return e.evalNumberLiteral(n), nil
	case *ast.ComplexLiteral:
		return e.evalComplexLiteral(n), nil
	case *ast.StringLiteral:
		return e.evalStringLiteral(n), nil
	case *ast.BoolLiteral:
		return e.evalBoolLiteral(n), nil
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(ctx, scope, n, source)
	case *ast.RecordLiteral:
		return e.evalRecordLiteral(ctx, scope, n, source)
	case *ast.EdgeLiteral:
		return e.evalEdgeLiteral(ctx, scope, n, source)
	case *ast.VariableDecl:
		return e.evalVariableDecl(ctx, scope, n, source)
	case *ast.MutableDecl:
		return e.evalMutableDecl(ctx, scope, n, source)
	case *ast.VariableRef:
		return e.evalVariableRef(scope, n, source)
	case *ast.SelfReference:
		return e.evalSelfReference(scope, n, source)
	case *ast.RecReference:
		return e.evalRecReference(scope, n, source)
	case *ast.Assignment:
		return e.evalAssignment(ctx, scope, n, source)
	case *ast.BinaryExpr:
		return e.evalBinaryExpr(ctx, scope, n, source)
	case *ast.UnaryExpr:
		return e.evalUnaryExpr(ctx, scope, n, source)
	case *ast.FunctionCall:
		return e.evalCall(ctx, scope, n, source)
	case *ast.Lambda:
		return e.evalLambda(scope, n, ""), nil
	case *ast.IndexAccess:
		return e.evalIndexAccess(ctx, scope, n, source)
	case *ast.FieldAccess:
		return e.evalFieldAccess(ctx, scope, n, source)
	case *ast.If:
		return e.evalIf(ctx, scope, n, source)
	case *ast.WhileLoop:
		return e.evalWhile(ctx, scope, n, source)
	case *ast.Piecewise:
		return e.evalPiecewise(ctx, scope, n, source)
	case *ast.Return:
		return e.evalReturn(ctx, scope, n, source)
	case *ast.Sequence:
		return e.evalSequenceLike(ctx, scope, n.Items, source)
	case *ast.DoBlock:
		return e.evalDoBlock(ctx, scope, n, source)
	case *ast.Import:
		return e.evalImport(n)
	case *ast.Export:
		return e.evalExport(scope, n, source)
	}
	return nil, errors.New(errors.KindInternal, "no handler for AST node %T", node)
}

func toExpressions(stmts []ast.Statement) []ast.Expression {
	out := make([]ast.Expression, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}
	return out
}
