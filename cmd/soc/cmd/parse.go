package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/soc-lang/soc/internal/ast"
	"github.com/soc-lang/soc/internal/lexer"
	"github.com/soc-lang/soc/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse SOC source and print the AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse inline source instead of reading a file")
}

func runParse(_ *cobra.Command, args []string) error {
	source, _, err := readSource(parseExpr, args)
	if err != nil {
		return err
	}

	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "parse errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	dumpNode(program, 0)
	return nil
}

func dumpNode(n ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := n.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", indent, len(x.Statements))
		for _, s := range x.Statements {
			dumpNode(s, depth+1)
		}
	case *ast.NumberLiteral:
		fmt.Printf("%sNumberLiteral %g\n", indent, x.Value)
	case *ast.ComplexLiteral:
		fmt.Printf("%sComplexLiteral %g%+gi\n", indent, x.Re, x.Im)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral %q\n", indent, x.Value)
	case *ast.BoolLiteral:
		fmt.Printf("%sBoolLiteral %v\n", indent, x.Value)
	case *ast.ArrayLiteral:
		fmt.Printf("%sArrayLiteral (%d elements)\n", indent, len(x.Elements))
		for _, el := range x.Elements {
			dumpNode(el.Expr, depth+1)
		}
	case *ast.RecordLiteral:
		fmt.Printf("%sRecordLiteral (%d fields)\n", indent, len(x.Fields))
		for _, f := range x.Fields {
			fmt.Printf("%s  %s:\n", indent, f.Name)
			dumpNode(f.Value, depth+2)
		}
	case *ast.VariableDecl:
		fmt.Printf("%sVariableDecl %s\n", indent, x.Name)
		dumpNode(x.Value, depth+1)
	case *ast.MutableDecl:
		fmt.Printf("%sMutableDecl %s\n", indent, x.Name)
		dumpNode(x.Value, depth+1)
	case *ast.VariableRef:
		fmt.Printf("%sVariableRef %s\n", indent, x.Name)
	case *ast.SelfReference:
		fmt.Printf("%sSelfReference\n", indent)
	case *ast.RecReference:
		fmt.Printf("%sRecReference\n", indent)
	case *ast.Assignment:
		fmt.Printf("%sAssignment\n", indent)
		dumpNode(x.Target, depth+1)
		dumpNode(x.Value, depth+1)
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr (%d)\n", indent, x.Op)
		dumpNode(x.Left, depth+1)
		dumpNode(x.Right, depth+1)
	case *ast.UnaryExpr:
		fmt.Printf("%sUnaryExpr (%d)\n", indent, x.Op)
		dumpNode(x.Operand, depth+1)
	case *ast.FunctionCall:
		fmt.Printf("%sFunctionCall (%d args)\n", indent, len(x.Args))
		dumpNode(x.Callee, depth+1)
		for _, a := range x.Args {
			dumpNode(a, depth+1)
		}
	case *ast.Lambda:
		fmt.Printf("%sLambda (%v)\n", indent, x.Params)
		dumpNode(x.Body, depth+1)
	case *ast.IndexAccess:
		fmt.Printf("%sIndexAccess\n", indent)
		dumpNode(x.Target, depth+1)
	case *ast.FieldAccess:
		fmt.Printf("%sFieldAccess .%s\n", indent, x.Field)
		dumpNode(x.Target, depth+1)
	case *ast.If:
		fmt.Printf("%sIf\n", indent)
		dumpNode(x.Cond, depth+1)
		dumpNode(x.Then, depth+1)
		if x.Else != nil {
			dumpNode(x.Else, depth+1)
		}
	case *ast.WhileLoop:
		fmt.Printf("%sWhileLoop\n", indent)
		dumpNode(x.Cond, depth+1)
		dumpNode(x.Body, depth+1)
	case *ast.Piecewise:
		fmt.Printf("%sPiecewise (%d cases)\n", indent, len(x.Cases))
		for _, c := range x.Cases {
			dumpNode(c.Cond, depth+1)
			dumpNode(c.Value, depth+1)
		}
		if x.Default != nil {
			dumpNode(x.Default, depth+1)
		}
	case *ast.Return:
		fmt.Printf("%sReturn\n", indent)
		dumpNode(x.Value, depth+1)
	case *ast.Sequence:
		fmt.Printf("%sSequence (%d items)\n", indent, len(x.Items))
		for _, it := range x.Items {
			dumpNode(it, depth+1)
		}
	case *ast.DoBlock:
		fmt.Printf("%sDoBlock\n", indent)
		dumpNode(x.Body, depth+1)
	case *ast.Import:
		fmt.Printf("%sImport %q\n", indent, x.Module)
	case *ast.Export:
		fmt.Printf("%sExport %s\n", indent, x.Name)
	default:
		fmt.Printf("%s%T\n", indent, n)
	}
}
