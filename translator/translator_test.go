package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMappedNameFallsBack(t *testing.T) {
	f := &Fragment{Uniforms: map[string]string{"invert_b": "_uinvert_b"}}

	assert.Equal(t, "_uinvert_b", f.MappedName("invert_b"))
	assert.Equal(t, "spin", f.MappedName("spin"))
}
