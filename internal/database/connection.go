package database

import "database/sql"

func (db *DB) exec(query string, args ...any) (sql.Result, error) {
	return db.Exec(query, args...)
}

func (db *DB) query(query string, args ...any) (*sql.Rows, error) {
	return db.Query(query, args...)
}

func (db *DB) queryRow(query string, args ...any) *sql.Row {
	return db.QueryRow(query, args...)
}

// insert runs an INSERT and returns the id the store generated for it
func (db *DB) insert(query string, args ...any) (int64, error) {
	result, err := db.exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
