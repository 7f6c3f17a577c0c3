package database

import "fmt"

// finder materializes records of one table. Table and column names are
// compile-time constants; every value is bound as a parameter.
type finder[T any] struct {
	table  string
	decode func(Row) (*T, error)
}

// byID selects the rows whose id equals id
func (f finder[T]) byID(db *DB, id int64) ([]*T, error) {
	return f.by(db, "id", id)
}

// by selects the rows whose column equals value, in store order
func (f finder[T]) by(db *DB, column string, value any) ([]*T, error) {
	return f.where(db, fmt.Sprintf("%s.%s = ?", f.table, column), value)
}

// where selects the rows matching predicate, in store order
func (f finder[T]) where(db *DB, predicate string, args ...any) ([]*T, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", f.table, predicate)
	return selectRecords(db, f.decode, query, args...)
}

// selectRecords runs query and decodes every returned row. An empty result
// is an empty slice.
func selectRecords[T any](db *DB, decode func(Row) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := db.query(query, args...)
	if err != nil {
		return nil, err
	}

	raw, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	records := make([]*T, 0, len(raw))
	for _, row := range raw {
		record, err := decode(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// First returns the first record, or nil when there are none.
// Finders always return slices; First is for callers expecting at most one match.
func First[T any](records []*T) *T {
	if len(records) == 0 {
		return nil
	}
	return records[0]
}
