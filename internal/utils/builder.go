// Package querybuilder builds multi-row INSERT ... ON CONFLICT
// statements with positional placeholders for the postgres adapters.
package querybuilder

import (
	"fmt"
	"strings"
)

type InsertBuilder struct {
	table         string
	cols          []string
	rows          [][]interface{}
	conflictCols  []string
	updateCols    []string
	doNothing     bool
	hasOnConflict bool
}

func NewInsertBuilder(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(cols ...string) *InsertBuilder {
	b.cols = cols
	return b
}

// Row appends one VALUES tuple; values must match Columns in count and order.
func (b *InsertBuilder) Row(values ...interface{}) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

func (b *InsertBuilder) OnConflict(cols ...string) *InsertBuilder {
	b.hasOnConflict = true
	b.conflictCols = cols
	return b
}

// DoUpdate overwrites cols from EXCLUDED on a conflicting row.
func (b *InsertBuilder) DoUpdate(cols ...string) *InsertBuilder {
	b.updateCols = cols
	return b
}

func (b *InsertBuilder) DoNothing() *InsertBuilder {
	b.doNothing = true
	return b
}

func (b *InsertBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, len(b.rows)*len(b.cols))

	sb.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		b.table, strings.Join(b.cols, ", ")))

	placeholder := 1
	tuples := make([]string, 0, len(b.rows))
	for _, row := range b.rows {
		marks := make([]string, 0, len(row))
		for _, v := range row {
			marks = append(marks, fmt.Sprintf("$%d", placeholder))
			args = append(args, v)
			placeholder++
		}
		tuples = append(tuples, "("+strings.Join(marks, ", ")+")")
	}
	sb.WriteString(strings.Join(tuples, ", "))

	if b.hasOnConflict {
		sb.WriteString(fmt.Sprintf(" ON CONFLICT (%s)", strings.Join(b.conflictCols, ", ")))
		switch {
		case b.doNothing || len(b.updateCols) == 0:
			sb.WriteString(" DO NOTHING")
		default:
			sets := make([]string, 0, len(b.updateCols))
			for _, col := range b.updateCols {
				sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
			}
			sb.WriteString(" DO UPDATE SET " + strings.Join(sets, ", "))
		}
	}

	return sb.String(), args
}
