// Package ast defines the abstract syntax tree produced by the parser.
//
// All node types are immutable once built: the parser constructs a tree and
// hands out shared references to it (lambda bodies in particular are shared,
// never copied, so that a Function outlives the expression that created it).
package ast

import "github.com/soc-lang/soc/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	node()
}

// Expression is a Node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that may be evaluated for effect; in SOC every
// statement is also evaluable as an expression (the language has no
// statement/expression split), so Statement is Expression under another
// name and any expression node may stand as a statement.
type Statement = Expression

// Base carries the source position shared by every node; embed it to
// satisfy Node.
type Base struct {
	Position token.Position
}

func (b Base) Pos() token.Position { return b.Position }
func (Base) node()                 {}

// At builds a Base from a token.Position, for use in node literals:
// ast.NumberLiteral{Base: ast.At(pos), Value: v}.
func At(p token.Position) Base { return Base{Position: p} }

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Base
	Statements []Statement
}

func (*Program) expressionNode() {}
func (*Program) statementNode()  {}

// ---- Literals ----

type NumberLiteral struct {
	Base
	Value float64
}

func (*NumberLiteral) expressionNode() {}

type ComplexLiteral struct {
	Base
	Re, Im float64
}

func (*ComplexLiteral) expressionNode() {}

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) expressionNode() {}

type BoolLiteral struct {
	Base
	Value bool
}

func (*BoolLiteral) expressionNode() {}

// ArrayElement is one element of an ArrayLiteral: either a plain Expr, or
// (if Spread is true) an expression whose elements splice in positionally.
type ArrayElement struct {
	Expr   Expression
	Spread bool
}

type ArrayLiteral struct {
	Base
	Elements []ArrayElement
}

func (*ArrayLiteral) expressionNode() {}

// RecordField is one field of a RecordLiteral, or (if Spread is true) an
// expression evaluating to a Record whose fields merge in.
type RecordField struct {
	Name    string
	Value   Expression
	Mutable bool
	Spread  bool
}

type RecordLiteral struct {
	Base
	Fields []RecordField
}

func (*RecordLiteral) expressionNode() {}

type EdgeLiteral struct {
	Base
	From, To   Expression
	Directed   bool
	Properties *RecordLiteral
}

func (*EdgeLiteral) expressionNode() {}

// ---- Variables ----

type VariableDecl struct {
	Base
	Name  string
	Value Expression
}

func (*VariableDecl) expressionNode() {}
func (*VariableDecl) statementNode()  {}

type MutableDecl struct {
	Base
	Name  string
	Value Expression
}

func (*MutableDecl) expressionNode() {}
func (*MutableDecl) statementNode()  {}

type VariableRef struct {
	Base
	Name string
}

func (*VariableRef) expressionNode() {}

type SelfReference struct{ Base }

func (*SelfReference) expressionNode() {}

type RecReference struct{ Base }

func (*RecReference) expressionNode() {}

// Assignment covers `target = value` for any assignable target
// (VariableRef, IndexAccess, or FieldAccess).
type Assignment struct {
	Base
	Target Expression
	Value  Expression
}

func (*Assignment) expressionNode() {}
func (*Assignment) statementNode()  {}

// ---- Operators ----

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
	Mod
	Gt
	Lt
	Gte
	Lte
	Eq
	Neq
	And
	Or
)

type BinaryExpr struct {
	Base
	Op          BinaryOp
	Left, Right Expression
}

func (*BinaryExpr) expressionNode() {}

type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expression
}

func (*UnaryExpr) expressionNode() {}

// ---- Calls and functions ----

type FunctionCall struct {
	Base
	Callee Expression
	Args   []Expression
}

func (*FunctionCall) expressionNode() {}

// CallExpression is an alias name for FunctionCall kept distinct in the
// spec's AST-node enumeration; SOC represents both the same way since a
// bare-identifier call and a callee-expression call share one evaluation
// path (§4.4.2).
type CallExpression = FunctionCall

type Lambda struct {
	Base
	Params []string
	Body   Expression
}

func (*Lambda) expressionNode() {}

// ---- Access ----

// IndexArg is either a plain index Expression or a slice `lo:hi` with
// either bound possibly nil (defaulting per §4.5.5).
type IndexArg struct {
	Index    Expression // nil if Slice
	Slice    bool
	Lo, Hi   Expression
	FullAxis bool // `:` alone selects the whole axis
}

type IndexAccess struct {
	Base
	Target Expression
	Args   []IndexArg
}

func (*IndexAccess) expressionNode() {}

type FieldAccess struct {
	Base
	Target Expression
	Field  string
}

func (*FieldAccess) expressionNode() {}

// ---- Control flow ----

type If struct {
	Base
	Cond, Then, Else Expression
}

func (*If) expressionNode() {}
func (*If) statementNode()  {}

type WhileLoop struct {
	Base
	Cond, Body Expression
}

func (*WhileLoop) expressionNode() {}
func (*WhileLoop) statementNode()  {}

type PiecewiseCase struct {
	Cond  Expression
	Value Expression
}

type Piecewise struct {
	Base
	Cases   []PiecewiseCase
	Default Expression // nil if absent
}

func (*Piecewise) expressionNode() {}
func (*Piecewise) statementNode()  {}

type Return struct {
	Base
	Value Expression
}

func (*Return) expressionNode() {}
func (*Return) statementNode()  {}

type Sequence struct {
	Base
	Items []Expression
}

func (*Sequence) expressionNode() {}
func (*Sequence) statementNode()  {}

// DoBlock is `do { stmts }`: a lexical block expression whose value is its
// last statement's value.
type DoBlock struct {
	Base
	Body *Sequence
}

func (*DoBlock) expressionNode() {}
func (*DoBlock) statementNode()  {}

type Import struct {
	Base
	Module string
}

func (*Import) expressionNode() {}
func (*Import) statementNode()  {}

type Export struct {
	Base
	Name string
}

func (*Export) expressionNode() {}
func (*Export) statementNode()  {}
