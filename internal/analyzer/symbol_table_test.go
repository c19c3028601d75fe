package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolTable_InternFirstSeenOrder(t *testing.T) {
	table := NewSymbolTable()

	assert.Equal(t, Symbol(0), table.Intern("NN"))
	assert.Equal(t, Symbol(1), table.Intern("VB"))
	assert.Equal(t, Symbol(0), table.Intern("NN"))
	assert.Equal(t, Symbol(2), table.Intern("JJ"))
	assert.Equal(t, 3, table.Len())
}

func TestSymbolTable_LookupDoesNotInsert(t *testing.T) {
	table := NewSymbolTable()
	table.Intern("H*")

	id, ok := table.Lookup("H*")
	assert.True(t, ok)
	assert.Equal(t, Symbol(0), id)

	_, ok = table.Lookup("L-")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}

func TestSymbolTable_Value(t *testing.T) {
	table := NewSymbolTable()
	table.Intern("a")
	table.Intern("b")

	v, ok := table.Value(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = table.Value(2)
	assert.False(t, ok)
	_, ok = table.Value(-1)
	assert.False(t, ok)
}
