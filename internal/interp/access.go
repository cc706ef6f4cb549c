package interp

import (
	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

// resolveMutableContainer evaluates expr as an lvalue container: it must be
// a bare variable bound to a value.MutableRef (§4.4.1 — "the outermost
// container" of an indexed/field assignment must be mutable). Returns the
// cell's current contents by reference: for Vector/Tensor/Record the
// returned Value shares its backing slice with the cell, so mutating it in
// place is observed by every alias without an explicit Set call.
func (e *Engine) resolveMutableContainer(scope *env.Environment, expr ast.Expression) (value.Value, error) {
	vr, ok := expr.(*ast.VariableRef)
	if !ok {
		return nil, errors.New(errors.KindImmutable, "assignment target's container must be a mutable variable")
	}
	raw, ok := scope.Lookup(vr.Name)
	if !ok {
		return nil, errors.New(errors.KindUndefined, "undefined variable %q", vr.Name)
	}
	ref, ok := raw.(value.MutableRef)
	if !ok {
		return nil, errors.New(errors.KindImmutable, "cannot assign into immutable binding %q", vr.Name)
	}
	return ref.Get(), nil
}

func (e *Engine) evalAssignment(ctx *tailFrame, scope *env.Environment, n *ast.Assignment, source string) (value.Value, error) {
	rhs, err := e.evalExpr(ctx, scope, n.Value, source)
	if err != nil {
		return nil, err
	}
	if rhs, err = checkNotControl(rhs); err != nil {
		return nil, err
	}

	switch target := n.Target.(type) {
	case *ast.VariableRef:
		if err := scope.Set(target.Name, rhs); err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return rhs, nil

	case *ast.IndexAccess:
		container, err := e.resolveMutableContainer(scope, target.Target)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		if err := e.assignIndexed(ctx, scope, container, target.Args, rhs, source); err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return rhs, nil

	case *ast.FieldAccess:
		container, err := e.resolveMutableContainer(scope, target.Target)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		rec, ok := container.(value.Record)
		if !ok {
			return nil, errors.New(errors.KindTypeMismatch, "field assignment target is not a Record").At(n.Position, source)
		}
		idx := -1
		for i, f := range rec.Fields {
			if f.Name == target.Field {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, errors.New(errors.KindUndefined, "record has no field %q", target.Field).At(n.Position, source)
		}
		if !rec.Fields[idx].Mutable {
			return nil, errors.New(errors.KindImmutable, "field %q is not mutable", target.Field).At(n.Position, source)
		}
		rec.Fields[idx].Value = rhs
		return rhs, nil
	}
	return nil, errors.New(errors.KindInternal, "unsupported assignment target %T", n.Target).At(n.Position, source)
}

// assignIndexed supports the common single-index element assignment
// (`a[i] = v`) on a Vector or a rank-1 Tensor by mutating its backing
// buffer in place. Multi-axis element assignment is not offered at
// language level (§9 design note: slices are view-shaped copies; DESIGN.md
// records this as a deliberate scope trim).
func (e *Engine) assignIndexed(ctx *tailFrame, scope *env.Environment, container value.Value, args []ast.IndexArg, rhs value.Value, source string) error {
	if len(args) != 1 || args[0].Slice || args[0].FullAxis {
		return errors.New(errors.KindInternal, "only single-axis element assignment (a[i] = v) is supported")
	}
	idxV, err := e.evalExpr(ctx, scope, args[0].Index, source)
	if err != nil {
		return err
	}
	idxN, ok := value.Deref(idxV).(value.Number)
	if !ok {
		return errors.New(errors.KindTypeMismatch, "index must be a Number")
	}

	switch c := container.(type) {
	case value.Vector:
		i, err := value.ResolveIndex(int(idxN), len(c.Data))
		if err != nil {
			return err
		}
		num, ok := value.Deref(rhs).(value.Number)
		if !ok {
			return errors.New(errors.KindTypeMismatch, "cannot assign %s into a Vector element", value.TypeName(rhs))
		}
		c.Data[i] = float64(num)
		return nil
	case value.Tensor:
		if c.Rank() != 1 {
			return errors.New(errors.KindShape, "element assignment on a rank >= 2 Tensor requires one index per axis")
		}
		i, err := value.ResolveIndex(int(idxN), len(c.Data))
		if err != nil {
			return err
		}
		num, ok := value.Deref(rhs).(value.Number)
		if !ok {
			return errors.New(errors.KindTypeMismatch, "cannot assign %s into a Tensor element", value.TypeName(rhs))
		}
		c.Data[i] = float64(num)
		return nil
	}
	return errors.New(errors.KindTypeMismatch, "cannot index-assign into %s", value.TypeName(container))
}

func (e *Engine) evalIndexAccess(ctx *tailFrame, scope *env.Environment, n *ast.IndexAccess, source string) (value.Value, error) {
	targetV, err := e.evalExpr(ctx, scope, n.Target, source)
	if err != nil {
		return nil, err
	}
	target := value.Deref(targetV)

	switch t := target.(type) {
	case value.Vector:
		shape, data, err := e.gather(ctx, scope, []int{len(t.Data)}, t.Data, 1, n.Args, source)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return shapeToVector(shape, data), nil
	case value.ComplexVector:
		shape, data, err := e.gather(ctx, scope, []int{t.Len()}, t.Data, 2, n.Args, source)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return shapeToComplexVector(shape, data), nil
	case value.Tensor:
		shape, data, err := e.gather(ctx, scope, t.Shape, t.Data, 1, n.Args, source)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return shapeToVector(shape, data), nil
	case value.ComplexTensor:
		shape, data, err := e.gather(ctx, scope, t.Shape, t.Data, 2, n.Args, source)
		if err != nil {
			return nil, attachPos(err, n.Position, source)
		}
		return shapeToComplexVector(shape, data), nil
	case value.Sequence:
		return e.indexSequence(ctx, scope, t.Elements, n.Args, source, n)
	}
	return nil, errors.New(errors.KindTypeMismatch, "cannot index %s", value.TypeName(target)).At(n.Position, source)
}

// shapeToVector collapses a gathered real-valued result to the most
// specific Value: scalar Number for an empty shape, Vector for rank 1,
// Tensor otherwise.
func shapeToVector(shape []int, data []float64) value.Value {
	switch len(shape) {
	case 0:
		return value.Number(data[0])
	case 1:
		return value.Vector{Data: data}
	default:
		return value.Tensor{Shape: shape, Data: data}
	}
}

func shapeToComplexVector(shape []int, data []float64) value.Value {
	switch len(shape) {
	case 0:
		return value.Complex{Re: data[0], Im: data[1]}
	case 1:
		return value.ComplexVector{Data: data}
	default:
		return value.ComplexTensor{Shape: shape, Data: data}
	}
}

// gather implements §4.5.5 N-D indexing/slicing uniformly for both real
// (elemSize 1) and interleaved-complex (elemSize 2) flat buffers: each
// IndexArg is either a Number (reduces that axis, negative-wrapped), a
// slice `lo:hi` (keeps the axis, resized), or `:` / an omitted trailing
// axis (keeps the axis, full range). The result is always a freshly
// allocated copy, never a view into the source buffer (SPEC_FULL.md's
// Tensor-indexing note).
func (e *Engine) gather(ctx *tailFrame, scope *env.Environment, shape []int, data []float64, elemSize int, args []ast.IndexArg, source string) ([]int, []float64, error) {
	rank := len(shape)
	if len(args) > rank {
		return nil, nil, errors.New(errors.KindIndex, "too many index arguments for rank-%d value", rank)
	}
	los := make([]int, rank)
	his := make([]int, rank)
	keep := make([]bool, rank)
	for axis := 0; axis < rank; axis++ {
		if axis >= len(args) {
			los[axis], his[axis], keep[axis] = 0, shape[axis], true
			continue
		}
		a := args[axis]
		switch {
		case a.FullAxis:
			los[axis], his[axis], keep[axis] = 0, shape[axis], true
		case a.Slice:
			lo, err := e.optionalIndexBound(ctx, scope, a.Lo, source)
			if err != nil {
				return nil, nil, err
			}
			hi, err := e.optionalIndexBound(ctx, scope, a.Hi, source)
			if err != nil {
				return nil, nil, err
			}
			l, h := value.ResolveSlice(lo, hi, shape[axis])
			los[axis], his[axis], keep[axis] = l, h, true
		default:
			v, err := e.evalExpr(ctx, scope, a.Index, source)
			if err != nil {
				return nil, nil, err
			}
			num, ok := value.Deref(v).(value.Number)
			if !ok {
				return nil, nil, errors.New(errors.KindTypeMismatch, "index must be a Number")
			}
			i, err := value.ResolveIndex(int(num), shape[axis])
			if err != nil {
				return nil, nil, err
			}
			los[axis], his[axis], keep[axis] = i, i+1, false
		}
	}

	strides := make([]int, rank)
	stride := 1
	for i := rank - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	var outShape []int
	for axis := 0; axis < rank; axis++ {
		if keep[axis] {
			outShape = append(outShape, his[axis]-los[axis])
		}
	}

	var out []float64
	idx := make([]int, rank)
	copy(idx, los)
	var walk func(axis int)
	walk = func(axis int) {
		if axis == rank {
			flat := 0
			for i, ix := range idx {
				flat += ix * strides[i]
			}
			out = append(out, data[flat*elemSize:flat*elemSize+elemSize]...)
			return
		}
		for i := los[axis]; i < his[axis]; i++ {
			idx[axis] = i
			walk(axis + 1)
		}
	}
	walk(0)
	return outShape, out, nil
}

func (e *Engine) optionalIndexBound(ctx *tailFrame, scope *env.Environment, expr ast.Expression, source string) (*int, error) {
	if expr == nil {
		return nil, nil
	}
	v, err := e.evalExpr(ctx, scope, expr, source)
	if err != nil {
		return nil, err
	}
	num, ok := value.Deref(v).(value.Number)
	if !ok {
		return nil, errors.New(errors.KindTypeMismatch, "slice bound must be a Number")
	}
	i := int(num)
	return &i, nil
}

func (e *Engine) indexSequence(ctx *tailFrame, scope *env.Environment, elems []value.Value, args []ast.IndexArg, source string, n *ast.IndexAccess) (value.Value, error) {
	if len(args) != 1 {
		return nil, errors.New(errors.KindIndex, "a Sequence accepts exactly one index argument").At(n.Position, source)
	}
	a := args[0]
	if a.Slice || a.FullAxis {
		lo, err := e.optionalIndexBound(ctx, scope, a.Lo, source)
		if err != nil {
			return nil, err
		}
		hi, err := e.optionalIndexBound(ctx, scope, a.Hi, source)
		if err != nil {
			return nil, err
		}
		l, h := value.ResolveSlice(lo, hi, len(elems))
		out := make([]value.Value, h-l)
		copy(out, elems[l:h])
		return value.Sequence{Elements: out}, nil
	}
	v, err := e.evalExpr(ctx, scope, a.Index, source)
	if err != nil {
		return nil, err
	}
	num, ok := value.Deref(v).(value.Number)
	if !ok {
		return nil, errors.New(errors.KindTypeMismatch, "index must be a Number").At(n.Position, source)
	}
	i, err := value.ResolveIndex(int(num), len(elems))
	if err != nil {
		return nil, attachPos(err, n.Position, source)
	}
	return elems[i], nil
}

func (e *Engine) evalFieldAccess(ctx *tailFrame, scope *env.Environment, n *ast.FieldAccess, source string) (value.Value, error) {
	targetV, err := e.evalExpr(ctx, scope, n.Target, source)
	if err != nil {
		return nil, err
	}
	rec, ok := value.Deref(targetV).(value.Record)
	if !ok {
		return nil, errors.New(errors.KindTypeMismatch, "cannot access field %q on %s", n.Field, value.TypeName(targetV)).At(n.Position, source)
	}
	v, ok := rec.Get(n.Field)
	if !ok {
		return nil, errors.New(errors.KindUndefined, "record has no field %q", n.Field).At(n.Position, source)
	}
	return v, nil
}
