package parser

import "github.com/rhino1998/mathscript/pkg/value"

type Keyword string

const (
	KeywordFn    Keyword = "fn"
	KeywordIf    Keyword = "if"
	KeywordElse  Keyword = "else"
	KeywordTrue  Keyword = "true"
	KeywordFalse Keyword = "false"
	KeywordNil   Keyword = "nil"
)

type Identifier string

type Node interface {
	Pos() Position
	WrapError(error) error
}

type Program struct {
	File       string
	Statements []Statement
}

// Block is a brace-delimited statement list. Function bodies and the
// branches of an if expression are blocks.
type Block struct {
	Statements []Statement

	Position
}

type Statement interface {
	Node
	statement()
}

type FunctionStatement struct {
	Name       Identifier
	Parameters []Identifier
	Body       *Block

	Position
}

func (*FunctionStatement) statement() {}

type AssignmentStatement struct {
	Name       Identifier
	Expression Expression

	Position
}

func (*AssignmentStatement) statement() {}

type ExpressionStatement struct {
	Expression Expression

	Position
}

func (*ExpressionStatement) statement() {}

type Expression interface {
	Node
	expression()
}

type Literal struct {
	Value value.Value

	Position
}

func (*Literal) expression() {}

type IdentifierExpression struct {
	Name Identifier

	Position
}

func (*IdentifierExpression) expression() {}

type ParenthesizedExpression struct {
	Expression Expression

	Position
}

func (*ParenthesizedExpression) expression() {}

type UnaryExpression struct {
	Operator   value.Operator
	Expression Expression

	Position
}

func (*UnaryExpression) expression() {}

type BinaryExpression struct {
	Left     Expression
	Operator value.Operator
	Right    Expression

	Position
}

func (*BinaryExpression) expression() {}

type CallExpression struct {
	Name Identifier
	Args []Expression

	Position
}

func (*CallExpression) expression() {}

// IfExpression evaluates to the last value of the branch taken. An else-if
// chain is represented as an Else block holding a single IfExpression.
type IfExpression struct {
	Condition Expression
	Then      *Block
	Else      *Block

	Position
}

func (*IfExpression) expression() {}
