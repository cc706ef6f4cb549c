package cmd

import (
	"fmt"

	"github.com/soc-lang/soc/internal/lexer"
	"github.com/soc-lang/soc/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexExpr    string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a SOC file or expression",
	Long: `Tokenize SOC source and print the resulting tokens, for debugging the
lexer.

Examples:
  soc lex -e "let x = 2i + 3"
  soc lex --show-type --show-pos script.soc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize inline source instead of reading a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token kind names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func runLex(_ *cobra.Command, args []string) error {
	source, _, err := readSource(lexExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	count, errCount := 0, 0
	for {
		tok, lexErr := l.NextToken()
		if lexErr != nil {
			errCount++
			if !onlyErrors {
				fmt.Printf("[ILLEGAL] %s\n", lexErr.Error())
			} else {
				fmt.Println(lexErr.Error())
			}
			continue
		}
		if onlyErrors {
			if tok.Kind == token.END {
				break
			}
			continue
		}
		count++
		printToken(tok)
		if tok.Kind == token.END {
			break
		}
	}

	if verbose {
		fmt.Printf("---\ntotal tokens: %d, errors: %d\n", count, errCount)
	}
	if onlyErrors && errCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := ""
	if showType {
		out = fmt.Sprintf("[%-10s]", tok.Kind)
	}
	if tok.Literal == "" {
		out += fmt.Sprintf(" %v", tok.Kind)
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
