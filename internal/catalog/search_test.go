package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldSearch(t *testing.T) {
	assert.Equal(t, "jamon serrano", FoldSearch("Jamón Serrano"))
	assert.Equal(t, "arrachera", FoldSearch("ARRACHERA"))
	assert.Equal(t, "pina", FoldSearch("Piña"))
	assert.Equal(t, "chorizo", FoldSearch("chorizo"))
	assert.Equal(t, "", FoldSearch(""))
}
