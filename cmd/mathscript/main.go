package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rhino1998/mathscript/pkg/builtins"
	"github.com/rhino1998/mathscript/pkg/config"
	"github.com/rhino1998/mathscript/pkg/interpreter"
	"github.com/urfave/cli/v3"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Log every function call",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Load settings from a YAML file",
		},
	}
}

func newInterpreter(c *cli.Command, stdout io.Writer) (*interpreter.Interpreter, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.Bool("debug") {
		cfg.Debug = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	interp, err := interpreter.New(logger, cfg.Interpreter(), builtins.Default(stdout))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	return interp, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:  "mathscript",
		Usage: "The mathscript interpreter",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a mathscript program",
				ArgsUsage: "<file>",
				Flags:     commonFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("must provide exactly one mathscript file as argument")
					}

					path := c.Args().First()
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to open file: %w", err)
					}
					defer f.Close()

					interp, err := newInterpreter(c, os.Stdout)
					if err != nil {
						return err
					}

					_, err = interp.Run(ctx, path, f)
					return err
				},
			},
			{
				Name:      "eval",
				Usage:     "Evaluate an expression and print its value",
				ArgsUsage: "<expression>",
				Flags:     commonFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() == 0 {
						return fmt.Errorf("must provide an expression to evaluate")
					}

					interp, err := newInterpreter(c, os.Stdout)
					if err != nil {
						return err
					}

					src := strings.Join(c.Args().Slice(), " ")
					vals, err := interp.Run(ctx, "eval", strings.NewReader(src))
					if err != nil {
						return err
					}

					printResult(os.Stdout, vals)
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "Start an interactive session",
				Flags: commonFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					interp, err := newInterpreter(c, os.Stdout)
					if err != nil {
						return err
					}

					return runREPL(ctx, interp, os.Stdout, os.Stderr)
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}
