package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rhino1998/mathscript/pkg/value"
)

type parser struct {
	tokens []Token
	pos    int
	errs   ErrorSet
}

// ParseReader parses a complete mathscript program read from r.
func ParseReader(file string, r io.Reader) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	return ParseString(file, string(src))
}

func ParseString(file, src string) (*Program, error) {
	tokens, err := Lex(file, src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	prog := &Program{File: file}

	for {
		p.skipSeparators()
		if p.at(TokenEOF) {
			break
		}

		stmt, err := p.parseStatement()
		if err != nil {
			p.errs.Add(err)
			p.synchronize()
			continue
		}

		prog.Statements = append(prog.Statements, stmt)

		if err := p.expectSeparator(); err != nil {
			p.errs.Add(err)
			p.synchronize()
		}
	}

	if err := p.errs.Err(); err != nil {
		return nil, err
	}

	return prog, nil
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parser) atText(kind TokenKind, text string) bool {
	tok := p.peek()
	return tok.Kind == kind && tok.Text == text
}

func (p *parser) atPunct(text string) bool {
	return p.atText(TokenPunct, text)
}

func (p *parser) atKeyword(kw Keyword) bool {
	return p.atText(TokenKeyword, string(kw))
}

func (p *parser) skipNewlines() {
	for p.at(TokenNewline) {
		p.next()
	}
}

func (p *parser) skipSeparators() {
	for p.at(TokenNewline) || p.atPunct(";") {
		p.next()
	}
}

func (p *parser) unexpected(tok Token, want string) error {
	err := fmt.Errorf("unexpected %s, expected %s", tok, want)
	if tok.Kind == TokenEOF {
		err = fmt.Errorf("%w, expected %s", ErrUnexpectedEOF, want)
	}

	return tok.WrapError(err)
}

func (p *parser) expectPunct(text string) (Token, error) {
	tok := p.peek()
	if !p.atPunct(text) {
		return tok, p.unexpected(tok, strconv.Quote(text))
	}

	return p.next(), nil
}

func (p *parser) expectIdent() (Token, error) {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		return tok, p.unexpected(tok, "identifier")
	}

	return p.next(), nil
}

func (p *parser) expectSeparator() error {
	tok := p.peek()
	switch {
	case tok.Kind == TokenNewline, tok.Kind == TokenEOF, p.atPunct(";"):
		return nil
	default:
		return p.unexpected(tok, "newline or \";\"")
	}
}

// synchronize skips to the end of the current statement after an error.
func (p *parser) synchronize() {
	depth := 0
	for !p.at(TokenEOF) {
		switch {
		case p.atPunct("{"):
			depth++
		case p.atPunct("}"):
			depth--
		case depth <= 0 && (p.at(TokenNewline) || p.atPunct(";")):
			return
		}
		p.next()
	}
}

func (p *parser) parseStatement() (Statement, error) {
	tok := p.peek()

	if p.atKeyword(KeywordFn) {
		return p.parseFunction()
	}

	if tok.Kind == TokenIdent && p.tokens[p.pos+1].Kind == TokenPunct && p.tokens[p.pos+1].Text == "=" {
		p.next()
		p.next()
		p.skipNewlines()

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return &AssignmentStatement{
			Name:       Identifier(tok.Text),
			Expression: expr,
			Position:   tok.Position,
		}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ExpressionStatement{
		Expression: expr,
		Position:   tok.Position,
	}, nil
}

func (p *parser) parseFunction() (Statement, error) {
	fnTok := p.next()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	_, err = p.expectPunct("(")
	if err != nil {
		return nil, err
	}

	var params []Identifier
	p.skipNewlines()
	for !p.atPunct(")") {
		param, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, Identifier(param.Text))

		p.skipNewlines()
		if !p.atPunct(",") {
			break
		}
		p.next()
		p.skipNewlines()
	}

	_, err = p.expectPunct(")")
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionStatement{
		Name:       Identifier(name.Text),
		Parameters: params,
		Body:       body,
		Position:   fnTok.Position,
	}, nil
}

func (p *parser) parseBlock() (*Block, error) {
	open, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}

	block := &Block{Position: open.Position}

	for {
		p.skipSeparators()
		if p.atPunct("}") {
			p.next()
			return block, nil
		}

		if p.at(TokenEOF) {
			return nil, p.unexpected(p.peek(), "\"}\"")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)

		if !p.atPunct("}") {
			if err := p.expectSeparator(); err != nil {
				return nil, err
			}
		}
	}
}

func (p *parser) parseExpression() (Expression, error) {
	if p.atKeyword(KeywordIf) {
		return p.parseIf()
	}

	return p.parseBinary(0)
}

func (p *parser) parseIf() (Expression, error) {
	ifTok := p.next()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	expr := &IfExpression{
		Condition: cond,
		Then:      then,
		Position:  ifTok.Position,
	}

	mark := p.pos
	p.skipNewlines()
	if !p.atKeyword(KeywordElse) {
		p.pos = mark
		return expr, nil
	}

	p.next()
	if p.atKeyword(KeywordIf) {
		elseTok := p.peek()
		elseIf, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		expr.Else = &Block{
			Statements: []Statement{&ExpressionStatement{Expression: elseIf, Position: elseTok.Position}},
			Position:   elseTok.Position,
		}

		return expr, nil
	}

	expr.Else, err = p.parseBlock()
	if err != nil {
		return nil, err
	}

	return expr, nil
}

var precedence = [][]value.Operator{
	{value.OperatorLogicalOr},
	{value.OperatorLogicalAnd},
	{value.OperatorEqual, value.OperatorNotEqual, value.OperatorLessThan, value.OperatorLessOrEqual, value.OperatorGreaterThan, value.OperatorGreaterOrEqual},
	{value.OperatorAddition, value.OperatorSubtraction},
	{value.OperatorMultiplication, value.OperatorDivision, value.OperatorModulo},
}

func (p *parser) matchOperator(ops []value.Operator) (value.Operator, bool) {
	tok := p.peek()
	if tok.Kind != TokenPunct {
		return "", false
	}

	for _, op := range ops {
		if tok.Text == string(op) {
			return op, true
		}
	}

	return "", false
}

func (p *parser) parseBinary(level int) (Expression, error) {
	if level >= len(precedence) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		opTok := p.peek()
		op, ok := p.matchOperator(precedence[level])
		if !ok {
			return left, nil
		}
		p.next()
		p.skipNewlines()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryExpression{
			Left:     left,
			Operator: op,
			Right:    right,
			Position: opTok.Position,
		}
	}
}

func (p *parser) parseUnary() (Expression, error) {
	tok := p.peek()
	op, ok := p.matchOperator([]value.Operator{value.OperatorSubtraction, value.OperatorNot})
	if ok {
		p.next()

		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpression{
			Operator:   op,
			Expression: expr,
			Position:   tok.Position,
		}, nil
	}

	return p.parsePower()
}

// parsePower binds tighter than unary minus on its left and is right
// associative: -2^2 is -(2^2), 2^3^2 is 2^(3^2).
func (p *parser) parsePower() (Expression, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	if !p.atPunct(string(value.OperatorExponent)) {
		return base, nil
	}
	p.next()
	p.skipNewlines()

	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &BinaryExpression{
		Left:     base,
		Operator: value.OperatorExponent,
		Right:    exp,
		Position: tok.Position,
	}, nil
}

func (p *parser) parsePrimary() (Expression, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenInt:
		p.next()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, tok.WrapError(fmt.Errorf("invalid integer literal %s: %w", tok.Text, err))
		}

		return &Literal{Value: value.Int(n), Position: tok.Position}, nil
	case TokenFloat:
		p.next()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, tok.WrapError(fmt.Errorf("invalid float literal %s: %w", tok.Text, err))
		}

		return &Literal{Value: value.Float(f), Position: tok.Position}, nil
	case TokenString:
		p.next()
		return &Literal{Value: value.String(tok.Text), Position: tok.Position}, nil
	case TokenKeyword:
		switch Keyword(tok.Text) {
		case KeywordTrue:
			p.next()
			return &Literal{Value: value.Bool(true), Position: tok.Position}, nil
		case KeywordFalse:
			p.next()
			return &Literal{Value: value.Bool(false), Position: tok.Position}, nil
		case KeywordNil:
			p.next()
			return &Literal{Value: value.Nil, Position: tok.Position}, nil
		case KeywordIf:
			return p.parseIf()
		}
	case TokenIdent:
		p.next()
		if p.atPunct("(") {
			return p.parseCall(tok)
		}

		return &IdentifierExpression{Name: Identifier(tok.Text), Position: tok.Position}, nil
	case TokenPunct:
		if tok.Text == "(" {
			p.next()
			p.skipNewlines()

			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			p.skipNewlines()
			_, err = p.expectPunct(")")
			if err != nil {
				return nil, err
			}

			return &ParenthesizedExpression{Expression: expr, Position: tok.Position}, nil
		}
	}

	return nil, p.unexpected(tok, "expression")
}

func (p *parser) parseCall(name Token) (Expression, error) {
	p.next()
	p.skipNewlines()

	call := &CallExpression{
		Name:     Identifier(name.Text),
		Position: name.Position,
	}

	for !p.atPunct(")") {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		p.skipNewlines()
		if !p.atPunct(",") {
			break
		}
		p.next()
		p.skipNewlines()
	}

	_, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}

	return call, nil
}
