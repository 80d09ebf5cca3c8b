package interpreter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rhino1998/mathscript/pkg/environment"
	"github.com/rhino1998/mathscript/pkg/parser"
	"github.com/rhino1998/mathscript/pkg/value"
)

type Config struct {
	// MaxCallDepth bounds nested function calls. Zero disables the limit.
	MaxCallDepth int
}

func (c *Config) Validate(logger *slog.Logger) error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max call depth must not be negative, got %d", c.MaxCallDepth)
	}

	return nil
}

type Interpreter struct {
	logger *slog.Logger
	Config Config

	global *environment.Environment
}

func New(logger *slog.Logger, config Config, natives environment.Natives) (*Interpreter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate interpreter config: %w", err)
	}

	return &Interpreter{
		logger: logger,
		Config: config,
		global: environment.NewGlobal(logger, natives, environment.WithMaxDepth(config.MaxCallDepth)),
	}, nil
}

// Global returns the environment programs run in. It persists across calls
// to Run, which is what makes the REPL stateful.
func (i *Interpreter) Global() *environment.Environment {
	return i.global
}

// Run parses and executes a program, returning the value of every
// value-producing top-level statement.
func (i *Interpreter) Run(ctx context.Context, file string, r io.Reader) ([]value.Value, error) {
	prog, err := parser.ParseReader(file, r)
	if err != nil {
		return nil, err
	}

	return i.Execute(ctx, prog)
}

func (i *Interpreter) Execute(ctx context.Context, prog *parser.Program) ([]value.Value, error) {
	i.logger.Debug("executing program",
		slog.String("file", prog.File),
		slog.Int("statements", len(prog.Statements)),
	)

	return executeStatements(ctx, i.global, prog.Statements)
}

// Block adapts a parsed statement list to environment.Block so that it can
// serve as a function body.
type Block struct {
	Statements []parser.Statement
}

func (b Block) Evaluate(ctx context.Context, env *environment.Environment) ([]value.Value, error) {
	return executeStatements(ctx, env, b.Statements)
}

func executeStatements(ctx context.Context, env *environment.Environment, stmts []parser.Statement) ([]value.Value, error) {
	var vals []value.Value
	for _, stmt := range stmts {
		val, ok, err := executeStatement(ctx, env, stmt)
		if err != nil {
			return nil, err
		}

		if ok {
			vals = append(vals, val)
		}
	}

	return vals, nil
}

func executeStatement(ctx context.Context, env *environment.Environment, stmt parser.Statement) (value.Value, bool, error) {
	switch stmt := stmt.(type) {
	case *parser.FunctionStatement:
		params := make([]string, 0, len(stmt.Parameters))
		for _, param := range stmt.Parameters {
			params = append(params, string(param))
		}

		env.CreateFunction(string(stmt.Name), params, Block{Statements: stmt.Body.Statements})

		return nil, false, nil
	case *parser.AssignmentStatement:
		val, err := executeExpression(ctx, env, stmt.Expression)
		if err != nil {
			return nil, false, err
		}

		env.AssignVariable(string(stmt.Name), val)

		return val, true, nil
	case *parser.ExpressionStatement:
		val, err := executeExpression(ctx, env, stmt.Expression)
		if err != nil {
			return nil, false, err
		}

		return val, true, nil
	default:
		return nil, false, stmt.WrapError(fmt.Errorf("unhandled statement type: %T", stmt))
	}
}

func executeExpression(ctx context.Context, env *environment.Environment, expr parser.Expression) (value.Value, error) {
	switch expr := expr.(type) {
	case *parser.Literal:
		return expr.Value, nil
	case *parser.IdentifierExpression:
		val, err := env.FindVariable(string(expr.Name))
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return val, nil
	case *parser.ParenthesizedExpression:
		return executeExpression(ctx, env, expr.Expression)
	case *parser.UnaryExpression:
		val, err := executeExpression(ctx, env, expr.Expression)
		if err != nil {
			return nil, err
		}

		res, err := value.Unary(expr.Operator, val)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return res, nil
	case *parser.BinaryExpression:
		return executeBinary(ctx, env, expr)
	case *parser.CallExpression:
		args := make([]value.Value, 0, len(expr.Args))
		for _, arg := range expr.Args {
			val, err := executeExpression(ctx, env, arg)
			if err != nil {
				return nil, err
			}

			args = append(args, val)
		}

		res, err := env.Invoke(ctx, string(expr.Name), args)
		if err != nil {
			return nil, expr.WrapError(err)
		}

		return res.Value(), nil
	case *parser.IfExpression:
		cond, err := executeExpression(ctx, env, expr.Condition)
		if err != nil {
			return nil, err
		}

		branch := expr.Else
		if value.Truthy(cond) {
			branch = expr.Then
		}

		if branch == nil {
			return value.Nil, nil
		}

		vals, err := executeStatements(ctx, env, branch.Statements)
		if err != nil {
			return nil, err
		}

		return environment.Many(vals).Value(), nil
	default:
		return nil, expr.WrapError(fmt.Errorf("unhandled expression type: %T", expr))
	}
}

func executeBinary(ctx context.Context, env *environment.Environment, expr *parser.BinaryExpression) (value.Value, error) {
	lhs, err := executeExpression(ctx, env, expr.Left)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case value.OperatorLogicalAnd:
		if !value.Truthy(lhs) {
			return value.Bool(false), nil
		}
	case value.OperatorLogicalOr:
		if value.Truthy(lhs) {
			return value.Bool(true), nil
		}
	}

	rhs, err := executeExpression(ctx, env, expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case value.OperatorLogicalAnd, value.OperatorLogicalOr:
		return value.Bool(value.Truthy(rhs)), nil
	}

	result, err := value.Binary(expr.Operator, lhs, rhs)
	if err != nil {
		return nil, expr.WrapError(err)
	}

	return result, nil
}
