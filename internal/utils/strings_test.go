package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Dune", NormalizeString("  Dune\t"))
	assert.Equal(t, "ada@example.org", NormalizeEmail(" Ada@Example.org "))
}

func TestIsBlank(t *testing.T) {
	assert.False(t, IsBlank())
	assert.False(t, IsBlank("a", "b"))
	assert.True(t, IsBlank("a", ""))
	assert.True(t, IsBlank("   "))
}
