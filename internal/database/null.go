package database

import "database/sql"

// nullFloat64ToPtr converts a sql.NullFloat64 to a pointer (nil if not valid)
func nullFloat64ToPtr(n sql.NullFloat64) *float64 {
	if n.Valid {
		return &n.Float64
	}
	return nil
}

// int64PtrValue returns the pointed-to value, or an untyped nil suitable for
// binding as NULL
func int64PtrValue(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
