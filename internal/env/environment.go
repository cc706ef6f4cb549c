// Package env implements the SOC environment (C5 of the specification): a
// lexically scoped variable store with parent-chain lookup, shareable by
// reference so that lambda closures capture by sharing rather than copying
// (§4.3, §5 — this is mandatory for both closure correctness over mutable
// bindings and for performance).
package env

import (
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/value"
)

// Environment is a single lexical scope with an optional parent.
type Environment struct {
	vars   map[string]value.Value
	parent *Environment
}

// New creates a root environment with no parent (used for the engine's
// global scope and the always-visible prelude).
func New() *Environment {
	return &Environment{vars: make(map[string]value.Value)}
}

// NewChild creates a child scope of e; lookups in the child fall through to
// e when a name is not found locally. Satisfies value.Scope.
func (e *Environment) NewChild() value.Scope {
	return e.PushScope()
}

// PushScope returns a new child *Environment of e. Construction is O(1): it
// shares e by reference rather than copying its bindings (§4.3).
func (e *Environment) PushScope() *Environment {
	return &Environment{vars: make(map[string]value.Value), parent: e}
}

// Lookup walks the parent chain; the first hit wins.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define inserts name into the current scope only. Redefining an existing
// binding in the SAME scope is an error (§4.3); shadowing a parent scope's
// binding by defining in a child scope is allowed.
func (e *Environment) Define(name string, v value.Value) error {
	if _, exists := e.vars[name]; exists {
		return errors.New(errors.KindRedefined, "%q is already defined in this scope", name)
	}
	e.vars[name] = v
	return nil
}

// DefineOrReplace is like Define but does not error on redefinition; used
// internally for injected bindings (`rec`, `self`) which may legitimately be
// rebound on re-entry to the same scope.
func (e *Environment) DefineOrReplace(name string, v value.Value) {
	e.vars[name] = v
}

// Set searches up the parent chain and mutates the scope where name is
// bound. It is an error if the name is undefined, or if it resolves to an
// immutable (non-MutableRef) binding.
func (e *Environment) Set(name string, v value.Value) error {
	for cur := e; cur != nil; cur = cur.parent {
		existing, ok := cur.vars[name]
		if !ok {
			continue
		}
		ref, isMutable := existing.(value.MutableRef)
		if !isMutable {
			return errors.New(errors.KindImmutable, "cannot assign to immutable binding %q", name)
		}
		ref.Set(v)
		return nil
	}
	return errors.New(errors.KindUndefined, "undefined variable %q", name)
}

// Parent returns e's parent scope, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }
