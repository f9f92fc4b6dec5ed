package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eggo/internal/ast"
)

func TestErrorCarriesKindAndCode(t *testing.T) {
	err := NotFoundf(nil, "variable %q not found", "x")
	assert.Equal(t, NotFound, err.Kind)
	assert.Equal(t, CodeNotFound, err.Code)
	assert.Contains(t, err.Error(), "x")
}

func TestReporterFormatsLocationWhenPresent(t *testing.T) {
	pos := ast.Position{Filename: "t.eggo", Line: 3, Column: 5}
	err := CheckFailedf(&pos, "3 != 4")
	out := NewReporter(false).Format(err)
	assert.Contains(t, out, "E0301")
	assert.Contains(t, out, "t.eggo:3:5")
}

func TestReporterOmitsLocationWhenAbsent(t *testing.T) {
	err := Unextractablef(nil, "class #2 has no admissible term")
	out := NewReporter(false).Format(err)
	assert.NotContains(t, out, "-->")
}
