package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/soc-lang/soc/pkg/soc"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Run a line-oriented REPL over one persistent Engine. Each line is
evaluated in turn against the same global environment, so variable and
module-import state accumulates across lines (§6.1/§5 "state persists until
explicitly cleared"). Type :reset to call Engine.Reset, :quit to exit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	engine := soc.New()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Fprintln(os.Stderr, "soc repl — :reset to clear state, :quit to exit")
	for {
		fmt.Fprint(os.Stderr, "soc> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case ":quit", ":q":
			return nil
		case ":reset":
			engine.Reset()
			continue
		}
		fmt.Println(engine.Eval(line))
	}
	return scanner.Err()
}
