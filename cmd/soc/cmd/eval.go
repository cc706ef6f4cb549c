package cmd

import (
	"fmt"
	"os"

	"github.com/soc-lang/soc/pkg/soc"
	"github.com/spf13/cobra"
)

var evalExpr string

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate a SOC source file or inline expression",
	Long: `Evaluate SOC source against a fresh Engine and print its canonical text
result.

Examples:
  soc eval -e "let x = 2 + 2; x * 10"
  soc eval script.soc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading a file")
}

func runEval(_ *cobra.Command, args []string) error {
	source, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	engine := soc.New()
	v, evalErr := engine.EvalValue(source)
	if evalErr != nil {
		fmt.Fprintln(os.Stderr, "Error: "+soc.FormatError(evalErr, wantColor(os.Stderr.Fd())))
		return fmt.Errorf("evaluation failed")
	}
	fmt.Println(soc.Format(v))
	return nil
}

// readSource resolves input precedence shared by eval/lex/parse: an inline
// -e expression, else a file argument, else an error (not stdin — SOC
// scripts are short enough that a missing source is almost always a typo,
// not a pipeline).
func readSource(inline string, args []string) (source, filename string, err error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}
