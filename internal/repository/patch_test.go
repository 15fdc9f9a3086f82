package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchBuilderQuery(t *testing.T) {
	var b patchBuilder
	assert.True(t, b.empty())

	b.set("name", "Ana")
	b.set("phone", "11999998888")
	assert.False(t, b.empty())

	q, args := b.query("customers", 7)
	assert.Equal(t, "UPDATE customers SET name = ?, phone = ? WHERE id = ?", q)
	assert.Equal(t, []interface{}{"Ana", "11999998888", uint64(7)}, args)
}

func TestPatchBuilderSingleColumn(t *testing.T) {
	var b patchBuilder
	b.set("available", false)

	q, args := b.query("vehicles", 3)
	assert.Equal(t, "UPDATE vehicles SET available = ? WHERE id = ?", q)
	assert.Equal(t, []interface{}{false, uint64(3)}, args)
}
