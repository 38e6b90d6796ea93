package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorTaxonomy checks messages and errors.As round trips through
// wrapping, since the driver wraps every failure with flavour context.
func TestErrorTaxonomy(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		err := Configf("flavour %q defines no files", "ttbb")
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, `config: flavour "ttbb" defines no files`, err.Error())
	})

	t.Run("missing file", func(t *testing.T) {
		err := fmt.Errorf("flavour ttbb: %w", &MissingFileError{File: "sigA.parquet", Folders: []string{"resolved_1l"}})
		var mfe *MissingFileError
		assert.ErrorAs(t, err, &mfe)
		assert.Equal(t, "sigA.parquet", mfe.File)
		assert.Contains(t, err.Error(), "resolved_1l")
	})

	t.Run("missing tree", func(t *testing.T) {
		err := &MissingTreeError{Path: "/d/a.parquet", Tree: "events", Found: "other"}
		assert.Contains(t, err.Error(), `tree "events" not found`)
		assert.Contains(t, err.Error(), "/d/a.parquet")
	})

	t.Run("expression unwraps", func(t *testing.T) {
		cause := errors.New("unknown name nJetz")
		err := &ExpressionError{Expr: "nJetz>=4", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "nJetz>=4")

		err.Path = "/d/a.parquet"
		assert.Contains(t, err.Error(), "/d/a.parquet")
	})
}
