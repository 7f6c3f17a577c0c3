package database

import (
	"database/sql"
	"fmt"
)

// Row is a result row keyed by column name
type Row map[string]any

// DecodeError reports a column that is missing from a row or holds a value of
// the wrong type for the record field it maps to.
type DecodeError struct {
	Table  string
	Column string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s.%s: %s", e.Table, e.Column, e.Reason)
}

// scanRows reads every remaining row into a Row and closes rows
func scanRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// rowDecoder pulls typed values out of a Row. The first failure is kept in
// err and every later call returns a zero value. Columns that no field asks
// for are ignored, so rows from wider tables or joins with extra computed
// columns still decode; Row() then returns only the record's own columns.
type rowDecoder struct {
	table string
	row   Row
	err   error
}

func newRowDecoder(table string, row Row) *rowDecoder {
	return &rowDecoder{table: table, row: row}
}

func (d *rowDecoder) fail(column, reason string) {
	if d.err == nil {
		d.err = &DecodeError{Table: d.table, Column: column, Reason: reason}
	}
}

func (d *rowDecoder) lookup(column string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := d.row[column]
	if !ok {
		d.fail(column, "column missing")
	}
	return v, ok
}

// id decodes the identifier column. A missing or NULL id means the record
// has not been persisted yet. A stored id of 0 is rejected: records use 0 to
// mean unsaved, so saving one back would insert a copy instead of updating it.
func (d *rowDecoder) id() int64 {
	v, ok := d.row["id"]
	if !ok || v == nil || d.err != nil {
		return 0
	}
	n, ok := toInt64(v)
	if !ok {
		d.fail("id", fmt.Sprintf("expected integer, got %T", v))
		return 0
	}
	if n == 0 {
		d.fail("id", "id 0 is reserved for unsaved records")
	}
	return n
}

func (d *rowDecoder) int64(column string) int64 {
	v, ok := d.lookup(column)
	if !ok {
		return 0
	}
	n, ok := toInt64(v)
	if !ok {
		d.fail(column, fmt.Sprintf("expected integer, got %T", v))
	}
	return n
}

func (d *rowDecoder) nullInt64(column string) *int64 {
	v, ok := d.lookup(column)
	if !ok || v == nil {
		return nil
	}
	n, ok := toInt64(v)
	if !ok {
		d.fail(column, fmt.Sprintf("expected integer or NULL, got %T", v))
		return nil
	}
	return &n
}

func (d *rowDecoder) string(column string) string {
	v, ok := d.lookup(column)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		d.fail(column, fmt.Sprintf("expected text, got %T", v))
		return ""
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}
