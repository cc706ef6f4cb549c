// Command soc is the SOC engine's command-line front end.
package main

import (
	"fmt"
	"os"

	"github.com/soc-lang/soc/cmd/soc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
