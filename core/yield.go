package core

import (
	"errors"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/internal/dataset"
)

// ComputeYield scans the given sample identifiers and returns the weighted
// event yield and the surviving event count. Each call resolves and loads
// its own dataset; nothing is cached between calls even when the same files
// are scanned again with a different weight.
func ComputeYield(eval contract.Evaluator, basePath string, folders, files []string, selection, weightExpr string) (float64, int, error) {
	paths, err := dataset.ResolveAll(basePath, folders, files)
	if err != nil {
		return 0, 0, err
	}
	frames, err := dataset.Open(paths)
	if err != nil {
		return 0, 0, err
	}

	var sum float64
	var count int
	for _, fr := range frames {
		s, n, err := scanFrame(eval, fr, selection, weightExpr)
		if err != nil {
			return 0, 0, err
		}
		sum += s
		count += n
	}
	return sum, count, nil
}

// scanFrame compiles both expressions against the frame's columns and
// accumulates the weighted sum over rows passing the selection.
func scanFrame(eval contract.Evaluator, fr *dataset.Frame, selection, weightExpr string) (float64, int, error) {
	cols := fr.Columns()
	pred, err := eval.CompilePredicate(selection, cols)
	if err != nil {
		return 0, 0, annotate(err, fr.Path)
	}
	weight, err := eval.CompileWeight(weightExpr, cols)
	if err != nil {
		return 0, 0, annotate(err, fr.Path)
	}

	env := make(map[string]any, len(cols))
	var sum float64
	var count int
	for i := range fr.NumRows() {
		fr.FillRow(i, env)
		pass, err := pred(env)
		if err != nil {
			return 0, 0, annotate(err, fr.Path)
		}
		if !pass {
			continue
		}
		w, err := weight(env)
		if err != nil {
			return 0, 0, annotate(err, fr.Path)
		}
		sum += w
		count++
	}
	return sum, count, nil
}

// annotate stamps the offending file path onto expression errors.
func annotate(err error, path string) error {
	var exprErr *contract.ExpressionError
	if errors.As(err, &exprErr) && exprErr.Path == "" {
		exprErr.Path = path
	}
	return err
}
