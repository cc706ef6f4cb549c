//go:build js && wasm

// Package wasm is the syscall/js adapter exposing pkg/soc's API to
// JavaScript as window.SOC. This glue is explicitly out of core scope
// (§1 treats WASM bindings as an external collaborator's concern) but is
// kept as a thin adapter since the spec's own purpose statement names WASM
// as the motivating host and the teacher ships the equivalent
// cmd/dwscript-wasm + pkg/wasm pair.
package wasm

import (
	"syscall/js"

	"github.com/soc-lang/soc/pkg/soc"
)

var engine = soc.New()

// RegisterAPI installs every exported function under window.SOC. Mirrors
// the teacher's RegisterAPI() entry point, called once from cmd/soc-wasm's
// main before blocking on the keep-alive channel.
func RegisterAPI() {
	api := js.Global().Get("Object").New()

	set := func(name string, fn func(this js.Value, args []js.Value) any) {
		api.Set(name, js.FuncOf(fn))
	}

	set("eval", jsEval)
	set("reset", jsReset)

	set("createVectorFromBuffer", jsCreateVectorFromBuffer)
	set("createMatrixFromBuffer", jsCreateMatrixFromBuffer)
	set("getVectorData", jsGetVectorData)
	set("getMatrixData", jsGetMatrixData)
	set("copyVectorToBuffer", jsCopyVectorToBuffer)
	set("release", jsRelease)
	set("isValid", jsIsValid)
	set("clone", jsClone)
	set("typeOf", jsTypeOf)
	set("bindVariableToHandle", jsBindVariableToHandle)
	set("createHandleFromVariable", jsCreateHandleFromVariable)

	set("vadd", jsBinaryKernel(engine.VAdd))
	set("vsub", jsBinaryKernel(engine.VSub))
	set("vmul", jsBinaryKernel(engine.VMul))
	set("vdiv", jsBinaryKernel(engine.VDiv))
	set("vscale", jsVScale)
	set("dot", jsScalarKernel(engine.Dot))
	set("norm", jsUnaryScalarKernel(engine.Norm))
	set("sin", jsUnaryKernel(engine.Sin))
	set("cos", jsUnaryKernel(engine.Cos))
	set("tan", jsUnaryKernel(engine.Tan))
	set("exp", jsUnaryKernel(engine.Exp))
	set("ln", jsUnaryKernel(engine.Ln))
	set("abs", jsUnaryKernel(engine.Abs))
	set("sqrt", jsUnaryKernel(engine.Sqrt))
	set("fft", jsUnaryKernel(engine.FFT))
	set("ifft", jsUnaryKernel(engine.IFFT))
	set("fftMag", jsUnaryKernel(engine.FFTMag))
	set("fftPhase", jsUnaryKernel(engine.FFTPhase))
	set("fftSpectrum", jsUnaryKernel(engine.FFTSpectrum))
	set("fftShift", jsUnaryKernel(engine.FFTShift))
	set("ifftShift", jsUnaryKernel(engine.IFFTShift))
	set("conv", jsBinaryKernel(engine.Conv))
	set("convFFT", jsBinaryKernel(engine.ConvFFT))
	set("linspace", jsLinspace)

	js.Global().Set("SOC", api)
}

func jsError(err error) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", err.Error())
	return result
}

func jsEval(_ js.Value, args []js.Value) any {
	return engine.Eval(args[0].String())
}

func jsReset(_ js.Value, _ []js.Value) any {
	return engine.Reset()
}

// float64ArrayFromJS converts a JS number array (or typed array) into a Go
// slice, copying once at the boundary — per §6.2's memory contract, nothing
// downstream is allowed to alias a JS-side buffer directly.
func float64ArrayFromJS(v js.Value) []float64 {
	n := v.Length()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.Index(i).Float()
	}
	return out
}

func float64ArrayToJS(data []float64) js.Value {
	arr := js.Global().Get("Array").New(len(data))
	for i, x := range data {
		arr.SetIndex(i, x)
	}
	return arr
}

func jsCreateVectorFromBuffer(_ js.Value, args []js.Value) any {
	h := engine.CreateVectorFromBuffer(float64ArrayFromJS(args[0]))
	return js.ValueOf(float64(h))
}

func jsCreateMatrixFromBuffer(_ js.Value, args []js.Value) any {
	rows, cols := args[1].Int(), args[2].Int()
	h, err := engine.CreateMatrixFromBuffer(float64ArrayFromJS(args[0]), rows, cols)
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(float64(h))
}

func handleArg(v js.Value) soc.Handle {
	return soc.Handle(uint64(v.Int()))
}

func jsGetVectorData(_ js.Value, args []js.Value) any {
	data, err := engine.GetVectorData(handleArg(args[0]))
	if err != nil {
		return jsError(err)
	}
	return float64ArrayToJS(data)
}

func jsGetMatrixData(_ js.Value, args []js.Value) any {
	data, rows, cols, err := engine.GetMatrixData(handleArg(args[0]))
	if err != nil {
		return jsError(err)
	}
	result := js.Global().Get("Object").New()
	result.Set("data", float64ArrayToJS(data))
	result.Set("rows", rows)
	result.Set("cols", cols)
	return result
}

func jsCopyVectorToBuffer(_ js.Value, args []js.Value) any {
	h := handleArg(args[0])
	max := args[1].Int()
	dest := make([]float64, max)
	n, err := engine.CopyVectorToBuffer(h, dest)
	if err != nil {
		return jsError(err)
	}
	result := js.Global().Get("Object").New()
	result.Set("copied", n)
	result.Set("data", float64ArrayToJS(dest[:n]))
	return result
}

func jsRelease(_ js.Value, args []js.Value) any {
	engine.Release(handleArg(args[0]))
	return nil
}

func jsIsValid(_ js.Value, args []js.Value) any {
	return js.ValueOf(engine.IsValid(handleArg(args[0])))
}

func jsClone(_ js.Value, args []js.Value) any {
	h, err := engine.Clone(handleArg(args[0]))
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(float64(h))
}

func jsTypeOf(_ js.Value, args []js.Value) any {
	name, err := engine.TypeOf(handleArg(args[0]))
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(name)
}

func jsBindVariableToHandle(_ js.Value, args []js.Value) any {
	if err := engine.BindVariableToHandle(args[0].String(), handleArg(args[1])); err != nil {
		return jsError(err)
	}
	return nil
}

func jsCreateHandleFromVariable(_ js.Value, args []js.Value) any {
	h, err := engine.CreateHandleFromVariable(args[0].String())
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(float64(h))
}

func jsBinaryKernel(fn func(a, b soc.Handle) (soc.Handle, error)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		h, err := fn(handleArg(args[0]), handleArg(args[1]))
		if err != nil {
			return jsError(err)
		}
		return js.ValueOf(float64(h))
	}
}

func jsUnaryKernel(fn func(a soc.Handle) (soc.Handle, error)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		h, err := fn(handleArg(args[0]))
		if err != nil {
			return jsError(err)
		}
		return js.ValueOf(float64(h))
	}
}

func jsScalarKernel(fn func(a, b soc.Handle) (float64, error)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		r, err := fn(handleArg(args[0]), handleArg(args[1]))
		if err != nil {
			return jsError(err)
		}
		return js.ValueOf(r)
	}
}

func jsUnaryScalarKernel(fn func(a soc.Handle) (float64, error)) func(js.Value, []js.Value) any {
	return func(_ js.Value, args []js.Value) any {
		r, err := fn(handleArg(args[0]))
		if err != nil {
			return jsError(err)
		}
		return js.ValueOf(r)
	}
}

func jsVScale(_ js.Value, args []js.Value) any {
	h, err := engine.VScale(handleArg(args[0]), args[1].Float())
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(float64(h))
}

func jsLinspace(_ js.Value, args []js.Value) any {
	h, err := engine.Linspace(args[0].Float(), args[1].Float(), args[2].Int())
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(float64(h))
}
