// Package expreval evaluates selection and weight expressions with the
// expr-lang engine. It is the only package that interprets expression text;
// core consumes it through the contract.Evaluator interface.
package expreval

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/hepworks/renorm/internal/contract"
)

// Engine implements contract.Evaluator on top of expr-lang/expr. Expressions
// are compiled once per (expression, column set) and then run per row
// against a map environment.
type Engine struct{}

// New returns a ready-to-use expression engine.
func New() *Engine { return &Engine{} }

// CompilePredicate compiles a selection string against the given columns.
// The empty selection selects every row. Unknown column references fail here
// rather than mid-scan.
func (e *Engine) CompilePredicate(src string, columns []string) (contract.Predicate, error) {
	if src == "" {
		return func(map[string]any) (bool, error) { return true, nil }, nil
	}
	prog, err := compile(src, columns)
	if err != nil {
		return nil, err
	}
	return func(row map[string]any) (bool, error) {
		out, err := expr.Run(prog, row)
		if err != nil {
			return false, &contract.ExpressionError{Expr: src, Err: err}
		}
		pass, err := asBool(out)
		if err != nil {
			return false, &contract.ExpressionError{Expr: src, Err: err}
		}
		return pass, nil
	}, nil
}

// CompileWeight compiles a per-event weight expression against the given
// columns.
func (e *Engine) CompileWeight(src string, columns []string) (contract.Weight, error) {
	prog, err := compile(src, columns)
	if err != nil {
		return nil, err
	}
	return func(row map[string]any) (float64, error) {
		out, err := expr.Run(prog, row)
		if err != nil {
			return 0, &contract.ExpressionError{Expr: src, Err: err}
		}
		w, err := asFloat(out)
		if err != nil {
			return 0, &contract.ExpressionError{Expr: src, Err: err}
		}
		return w, nil
	}, nil
}

func compile(src string, columns []string) (*vm.Program, error) {
	env := make(map[string]any, len(columns))
	for _, c := range columns {
		env[c] = float64(0)
	}
	prog, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, &contract.ExpressionError{Expr: src, Err: err}
	}
	return prog, nil
}

// asBool follows the columnar-engine convention that a numeric selection
// result selects rows with a non-zero value.
func asBool(out any) (bool, error) {
	switch v := out.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	}
	return false, fmt.Errorf("selection evaluates to %T, want bool or number", out)
}

func asFloat(out any) (float64, error) {
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("weight evaluates to %T, want a number", out)
}
