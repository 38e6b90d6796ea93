package contract

import "fmt"

// ConfigError reports a malformed or incomplete configuration. It is fatal
// and surfaces before any computation starts.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string { return "config: " + e.Detail }

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Detail: fmt.Sprintf(format, args...)}
}

// MissingFileError reports a sample identifier that resolved to no existing
// file in any configured folder.
type MissingFileError struct {
	File    string
	Folders []string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("sample file %q not found in any of the folders %v", e.File, e.Folders)
}

// MissingTreeError reports a sample file whose root schema is not the fixed
// event tree.
type MissingTreeError struct {
	Path  string
	Tree  string
	Found string
}

func (e *MissingTreeError) Error() string {
	return fmt.Sprintf("tree %q not found in %s (file schema is %q)", e.Tree, e.Path, e.Found)
}

// ExpressionError reports a selection or weight expression that failed to
// compile or evaluate against a sample's columns. Path is empty for
// compile-time failures that never reached a file scan.
type ExpressionError struct {
	Expr string
	Path string
	Err  error
}

func (e *ExpressionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("expression %q failed on %s: %v", e.Expr, e.Path, e.Err)
	}
	return fmt.Sprintf("expression %q failed: %v", e.Expr, e.Err)
}

func (e *ExpressionError) Unwrap() error { return e.Err }
