package database

import "fmt"

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (db *DB) Optimize() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
func (db *DB) Vacuum() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.exec("VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}

// TableCounts returns the number of rows in each forum table
func (db *DB) TableCounts() (map[string]int64, error) {
	counts := make(map[string]int64, 5)
	for _, table := range []string{"users", "questions", "replies", "question_follows", "question_likes"} {
		var n int64
		if err := db.queryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
