package cmd

import (
	"fmt"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "soc",
	Short: "SOC expression-language engine",
	Long: `soc is a tree-walking interpreter for SOC, a small expression language
for numeric/signal-processing scripting, plus a zero-copy handle-based fast
path for host-embedded use (e.g. WASM).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// wantColor reports whether error rendering should include ANSI carets:
// only when fd (eval passes stderr, where errors are written) is a real
// terminal, matching the teacher's
// isatty-gated color decision (funvibe-funxy's builtins_term.go).
func wantColor(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
