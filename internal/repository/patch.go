package repository

import "strings"

// patchBuilder assembles a parameterized UPDATE statement from the
// fields present on an entity patch. Column names are compile-time
// literals supplied by the repositories; all values travel as query
// parameters, never as assembled SQL text.
type patchBuilder struct {
	cols []string
	args []interface{}
}

// set registers a column assignment.
func (p *patchBuilder) set(col string, v interface{}) {
	p.cols = append(p.cols, col+" = ?")
	p.args = append(p.args, v)
}

// empty reports whether no assignments were registered.
func (p *patchBuilder) empty() bool { return len(p.cols) == 0 }

// query returns the full UPDATE statement for the given table keyed by
// id, along with its argument list.
func (p *patchBuilder) query(table string, id uint64) (string, []interface{}) {
	q := "UPDATE " + table + " SET " + strings.Join(p.cols, ", ") + " WHERE id = ?"
	return q, append(p.args, id)
}
