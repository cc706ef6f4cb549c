package interp

import "github.com/soc-lang/soc/internal/ast"

// isSelfCallNode reports whether e is a call whose callee statically
// denotes the lambda currently being analyzed: either the `rec` keyword, or
// a bare reference to selfName, the name the lambda is being bound to via
// `let`/`mut` (empty if the lambda is anonymous, in which case only `rec`
// qualifies).
func isSelfCallNode(e ast.Expression, selfName string) bool {
	call, ok := e.(*ast.FunctionCall)
	if !ok {
		return false
	}
	switch callee := call.Callee.(type) {
	case *ast.RecReference:
		return true
	case *ast.VariableRef:
		return selfName != "" && callee.Name == selfName
	}
	return false
}

// analyzeTailPositions walks e, returning false the instant it finds a
// self-call (§4.4.3) sitting outside a tail position. tail reports whether
// e itself currently occupies a tail position of the lambda body being
// analyzed. Per §4.8: the body itself, both branches of an if, every
// piecewise case/default, and the last item of a sequence/do-block are
// tail positions; everything else (call arguments, binary/unary operands,
// literal elements, while bodies) is not. Nested lambda bodies are separate
// functions and are not scanned.
func analyzeTailPositions(e ast.Expression, selfName string, tail bool) bool {
	if e == nil {
		return true
	}
	if isSelfCallNode(e, selfName) {
		if !tail {
			return false
		}
		// The call itself is fine; its arguments are never tail positions,
		// but they must still be scanned for a disqualifying self-call.
		for _, arg := range e.(*ast.FunctionCall).Args {
			if !analyzeTailPositions(arg, selfName, false) {
				return false
			}
		}
		return true
	}

	switch n := e.(type) {
	case *ast.FunctionCall:
		if !analyzeTailPositions(n.Callee, selfName, false) {
			return false
		}
		for _, arg := range n.Args {
			if !analyzeTailPositions(arg, selfName, false) {
				return false
			}
		}
		return true
	case *ast.If:
		return analyzeTailPositions(n.Cond, selfName, false) &&
			analyzeTailPositions(n.Then, selfName, tail) &&
			analyzeTailPositions(n.Else, selfName, tail)
	case *ast.Piecewise:
		for _, c := range n.Cases {
			if !analyzeTailPositions(c.Cond, selfName, false) {
				return false
			}
			if !analyzeTailPositions(c.Value, selfName, tail) {
				return false
			}
		}
		return analyzeTailPositions(n.Default, selfName, tail)
	case *ast.Sequence:
		last := len(n.Items) - 1
		for i, item := range n.Items {
			if !analyzeTailPositions(item, selfName, tail && i == last) {
				return false
			}
		}
		return true
	case *ast.DoBlock:
		return analyzeTailPositions(n.Body, selfName, tail)
	case *ast.WhileLoop:
		return analyzeTailPositions(n.Cond, selfName, false) &&
			analyzeTailPositions(n.Body, selfName, false)
	case *ast.BinaryExpr:
		return analyzeTailPositions(n.Left, selfName, false) &&
			analyzeTailPositions(n.Right, selfName, false)
	case *ast.UnaryExpr:
		return analyzeTailPositions(n.Operand, selfName, false)
	case *ast.Return:
		return analyzeTailPositions(n.Value, selfName, tail)
	case *ast.Assignment:
		return analyzeTailPositions(n.Target, selfName, false) &&
			analyzeTailPositions(n.Value, selfName, false)
	case *ast.VariableDecl:
		return analyzeTailPositions(n.Value, selfName, false)
	case *ast.MutableDecl:
		return analyzeTailPositions(n.Value, selfName, false)
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			if !analyzeTailPositions(el.Expr, selfName, false) {
				return false
			}
		}
		return true
	case *ast.RecordLiteral:
		for _, f := range n.Fields {
			if f.Value != nil && !analyzeTailPositions(f.Value, selfName, false) {
				return false
			}
		}
		return true
	case *ast.EdgeLiteral:
		return analyzeTailPositions(n.From, selfName, false) &&
			analyzeTailPositions(n.To, selfName, false)
	case *ast.IndexAccess:
		if !analyzeTailPositions(n.Target, selfName, false) {
			return false
		}
		for _, a := range n.Args {
			if a.Index != nil && !analyzeTailPositions(a.Index, selfName, false) {
				return false
			}
			if a.Lo != nil && !analyzeTailPositions(a.Lo, selfName, false) {
				return false
			}
			if a.Hi != nil && !analyzeTailPositions(a.Hi, selfName, false) {
				return false
			}
		}
		return true
	case *ast.FieldAccess:
		return analyzeTailPositions(n.Target, selfName, false)
	case *ast.Lambda:
		// A nested lambda's body is a separate function; `rec` inside it
		// refers to ITS OWN closest enclosing function, never the one under
		// analysis, so it is never scanned here.
		return true
	}
	return true
}

// isTailRecursive decides C10's flag for a lambda bound (if at all) under
// selfName: true iff every self-call reachable from body sits in a tail
// position. A body with no self-calls at all is vacuously tail-recursive
// (the TCO loop simply never observes a TailCall and behaves like a normal
// single-shot call).
func isTailRecursive(body ast.Expression, selfName string) bool {
	return analyzeTailPositions(body, selfName, true)
}
