// Package contract provides the validated runtime configuration, the error
// taxonomy, and the interfaces shared between core and its collaborators.
package contract

// Predicate decides whether one event row passes a selection. The row maps
// column names to their float64 values.
type Predicate func(row map[string]any) (bool, error)

// Weight maps one event row to its per-event weight.
type Weight func(row map[string]any) (float64, error)

// Evaluator compiles selection and weight strings against a named column
// set. Implementations are external collaborators; core never interprets
// expression text itself.
type Evaluator interface {
	// CompilePredicate compiles a selection string. An empty selection
	// compiles to a predicate that accepts every row.
	CompilePredicate(expr string, columns []string) (Predicate, error)

	// CompileWeight compiles a per-event weight expression.
	CompileWeight(expr string, columns []string) (Weight, error)
}
