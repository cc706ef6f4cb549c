// Package interp implements the evaluator core (C6), the handler set (C7),
// the built-in registry / prelude (C8) and the TCO analyzer (C10): the
// tree-walk from a parsed AST to a value.Value, dispatched through a
// persistent, lexically scoped Environment.
package interp

import (
	"github.com/soc-lang/soc/internal/env"
	"github.com/soc-lang/soc/internal/errors"
	"github.com/soc-lang/soc/internal/handle"
	"github.com/soc-lang/soc/internal/lexer"
	"github.com/soc-lang/soc/internal/parser"
	"github.com/soc-lang/soc/internal/value"
)

// Engine owns one independent evaluation session: its global environment,
// its module registry, its handle table, and its evaluation options. The
// §9 "global mutable evaluator" pattern is modeled as an owned object so a
// host may freely instantiate more than one.
type Engine struct {
	global   *env.Environment
	modules  map[string]map[string]value.Value
	imported map[string]bool
	exports  map[string]bool
	handles  *handle.Table

	iterationLimit int // 0 means unbounded
	trace          bool
}

// EngineOption configures an Engine at construction time, following the
// lexer's functional-options pattern (lexer.WithTracing).
type EngineOption func(*Engine)

// WithIterationLimit sets the §5 configurable ceiling on TCO-loop and
// while-loop iterations; exceeding it yields KindIterationLimit. n <= 0 means
// unbounded (the default).
func WithIterationLimit(n int) EngineOption {
	return func(e *Engine) { e.iterationLimit = n }
}

// WithModule registers an additional native module beyond the built-in
// prelude, "dsp" and "stats" modules, visible to `import "name"` once
// the engine is constructed.
func WithModule(name string, builtins map[string]value.Value) EngineOption {
	return func(e *Engine) { e.modules[name] = builtins }
}

// WithTrace sets the engine's tracing flag (mirrors lexer.WithTracing). It
// is a no-op hook at this layer: a traced engine's Eval prints nothing, and
// the Engine has no accessor for the flag, since the core performs no I/O
// (see SPEC_FULL.md's Logging section).
func WithTrace(on bool) EngineOption {
	return func(e *Engine) { e.trace = on }
}

// New constructs an Engine with the always-visible prelude defined and the
// "dsp"/"stats" modules registered (but not yet imported).
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		global:   env.New(),
		modules:  make(map[string]map[string]value.Value),
		imported: make(map[string]bool),
		exports:  make(map[string]bool),
		handles:  handle.New(),
	}
	e.modules["dsp"] = dspModule(e.handles)
	e.modules["stats"] = statsModule()
	for _, opt := range opts {
		opt(e)
	}
	e.definePrelude(e.global)
	return e
}

// Handles exposes the engine's handle table to the embedding host API
// (pkg/soc), which is the only other consumer of the handle manager.
func (e *Engine) Handles() *handle.Table { return e.handles }

// Global exposes the engine's global environment to pkg/soc, which needs
// it for bindVariableToHandle/createHandleFromVariable (§4.6) — the only
// handle-API operations that cross from the handle table into variable
// scope.
func (e *Engine) Global() *env.Environment { return e.global }

// Eval implements the §6.1 textual API: parse and evaluate source against
// the persistent global environment, returning a canonical text
// representation of the result, or an error message prefixed by "Error:".
func (e *Engine) Eval(source string) string {
	v, err := e.EvalValue(source)
	if err != nil {
		return "Error: " + formatErr(err)
	}
	return value.Format(v)
}

// EvalValue is the Value-returning counterpart of Eval, for embedders that
// want the structured result rather than its text rendering.
func (e *Engine) EvalValue(source string) (value.Value, error) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}

	var result value.Value = value.Boolean(false)
	for _, stmt := range program.Statements {
		v, err := e.evalExpr(nil, e.global, stmt, source)
		if err != nil {
			return nil, err
		}
		if ret, ok := v.(value.EarlyReturn); ok {
			return ret.Inner, nil
		}
		if value.IsControl(v) {
			return nil, errors.New(errors.KindInternal, "control sentinel escaped top-level evaluation")
		}
		result = v
	}
	return result, nil
}

// Reset implements §6.1 reset(): drops the entire global environment
// (user variables and module imports); the prelude remains visible.
func (e *Engine) Reset() string {
	e.global = env.New()
	e.imported = make(map[string]bool)
	e.definePrelude(e.global)
	return "ok"
}

func formatErr(err error) string {
	if ee, ok := err.(*errors.EngineError); ok {
		return ee.Error()
	}
	return err.Error()
}
