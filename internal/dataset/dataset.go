// Package dataset loads event samples from Parquet files into in-memory
// column frames. One frame corresponds to one file; a computation's dataset
// is the ordered concatenation of its frames.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/parquet-go/parquet-go"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/schema"
)

const readBatchSize = 1024

// Frame holds the numeric columns of one sample file. Non-numeric columns
// are dropped on load since selections and weights only ever reference
// numeric event branches.
type Frame struct {
	Path    string
	numRows int
	columns map[string][]float64
}

// NumRows returns the number of event rows in the frame.
func (f *Frame) NumRows() int { return f.numRows }

// Columns lists the numeric column names in sorted order.
func (f *Frame) Columns() []string {
	return slices.Sorted(maps.Keys(f.columns))
}

// Column returns the values of a single column.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.columns[name]
	return col, ok
}

// FillRow copies row i into env, reusing the map across rows.
func (f *Frame) FillRow(i int, env map[string]any) {
	for name, col := range f.columns {
		env[name] = col[i]
	}
}

// Resolve returns every existing path for one sample identifier across the
// configured folders, in folder order. The same identifier may exist in
// several folders; all of them contribute rows.
func Resolve(basePath string, folders []string, file string) ([]string, error) {
	var paths []string
	for _, folder := range folders {
		p := filepath.Join(basePath, folder, file)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, &contract.MissingFileError{File: file, Folders: folders}
	}
	return paths, nil
}

// ResolveAll resolves a list of identifiers, concatenating matches in
// identifier-then-folder order.
func ResolveAll(basePath string, folders, files []string) ([]string, error) {
	var paths []string
	for _, file := range files {
		p, err := Resolve(basePath, folders, file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p...)
	}
	return paths, nil
}

// Open loads every path into a frame, verifying the fixed event tree name.
func Open(paths []string) ([]*Frame, error) {
	frames := make([]*Frame, 0, len(paths))
	for _, p := range paths {
		fr, err := openFrame(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func openFrame(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if name := pf.Schema().Name(); name != schema.EventTreeName {
		return nil, &contract.MissingTreeError{Path: path, Tree: schema.EventTreeName, Found: name}
	}

	names := leafNames(pf.Schema())
	fr := &Frame{Path: path, columns: make(map[string][]float64, len(names))}
	skip := make([]bool, len(names))

	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, names, skip, fr); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return fr, nil
}

func readRowGroup(rg parquet.RowGroup, names []string, skip []bool, fr *Frame) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()

	buf := make([]parquet.Row, readBatchSize)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			appendRow(row, names, skip, fr)
			fr.numRows++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func appendRow(row parquet.Row, names []string, skip []bool, fr *Frame) {
	for _, v := range row {
		ci := v.Column()
		if ci < 0 || ci >= len(names) || skip[ci] {
			continue
		}
		val, ok := numericValue(v)
		if !ok {
			// Non-numeric column: drop it entirely.
			skip[ci] = true
			delete(fr.columns, names[ci])
			continue
		}
		fr.columns[names[ci]] = append(fr.columns[names[ci]], val)
	}
}

func numericValue(v parquet.Value) (float64, bool) {
	if v.IsNull() {
		return 0, true
	}
	switch v.Kind() {
	case parquet.Boolean:
		if v.Boolean() {
			return 1, true
		}
		return 0, true
	case parquet.Int32:
		return float64(v.Int32()), true
	case parquet.Int64:
		return float64(v.Int64()), true
	case parquet.Float:
		return float64(v.Float()), true
	case parquet.Double:
		return v.Double(), true
	}
	return 0, false
}

// leafNames walks the schema depth-first, matching the leaf column index
// order of parquet row values. Nested groups get dotted names.
func leafNames(s *parquet.Schema) []string {
	var names []string
	for _, field := range s.Fields() {
		collectLeaves(field, field.Name(), &names)
	}
	return names
}

func collectLeaves(node parquet.Node, prefix string, names *[]string) {
	if node.Leaf() {
		*names = append(*names, prefix)
		return
	}
	for _, field := range node.Fields() {
		collectLeaves(field, prefix+"."+field.Name(), names)
	}
}
