package main

import (
	"fmt"
	"os"

	"rune/pkg/config"
	"rune/pkg/diagnostics"
	"rune/pkg/interpreter"
	"rune/pkg/parser"
	"rune/pkg/repl"
	"rune/pkg/resolver"
	"rune/pkg/scanner"
)

const (
	exitUsage        = 42
	exitCompileError = 43
	exitRuntimeError = 44
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(".rune.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .rune.yaml: %v\n", err)
		return exitUsage
	}

	switch len(args) {
	case 0:
		repl.Run(os.Stdin, os.Stdout, os.Stderr, cfg.Prompt, cfg.ClockOffset)
		return 0
	case 1:
		return runFile(args[0], cfg)
	default:
		fmt.Fprintln(os.Stderr, "Usage: rune [script]")
		return exitUsage
	}
}

func runFile(path string, cfg config.Config) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return exitUsage
	}

	diags := diagnostics.NewBag()

	sc := scanner.New(string(source), diags)
	tokens := sc.ScanTokens()
	if diags.HasErrors() {
		reportAll(diags)
		return exitCompileError
	}

	p := parser.New(tokens, diags)
	stmts := p.Parse()
	if diags.HasErrors() {
		reportAll(diags)
		return exitCompileError
	}

	res := resolver.New(diags)
	depths := res.Resolve(stmts)
	if diags.HasErrors() {
		reportAll(diags)
		return exitCompileError
	}

	interp := interpreter.New(os.Stdout, depths, cfg.ClockOffset)
	if err := interp.Interpret(stmts); err != nil {
		if rtErr, ok := err.(*diagnostics.RuntimeError); ok {
			fmt.Fprintln(os.Stderr, rtErr.Report())
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return exitRuntimeError
	}

	return 0
}

func reportAll(diags *diagnostics.Bag) {
	for _, d := range diags.All() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
