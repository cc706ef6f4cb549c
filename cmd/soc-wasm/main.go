//go:build js && wasm

// Package main is the WebAssembly entry point: it registers the SOC API
// with JavaScript and blocks to keep the module alive.
//
// Build with:
//   GOOS=js GOARCH=wasm go build -o soc.wasm ./cmd/soc-wasm
//
// Usage from JavaScript:
//   <script src="wasm_exec.js"></script>
//   <script>
//     const go = new Go();
//     WebAssembly.instantiateStreaming(fetch("soc.wasm"), go.importObject)
//       .then((result) => {
//         go.run(result.instance);
//         // window.SOC is now available
//       });
//   </script>
package main

import (
	"syscall/js"

	"github.com/soc-lang/soc/pkg/wasm"
)

func main() {
	done := make(chan struct{})

	wasm.RegisterAPI()

	js.Global().Get("console").Call("log", "SOC WASM module initialized")

	<-done
}
