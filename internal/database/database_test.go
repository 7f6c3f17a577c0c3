package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to open db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.EnsureSchema(), "failed to create schema")
	return db
}

func mustSaveUser(t *testing.T, db *DB, first, last string) *User {
	t.Helper()
	u := &User{FirstName: first, LastName: last}
	require.NoError(t, db.SaveUser(u))
	return u
}

func mustSaveQuestion(t *testing.T, db *DB, title string, authorID int64) *Question {
	t.Helper()
	q := &Question{Title: title, Body: title + " body", AuthorID: authorID}
	require.NoError(t, db.SaveQuestion(q))
	return q
}

func mustSaveReply(t *testing.T, db *DB, questionID int64, parentID *int64, authorID int64, body string) *Reply {
	t.Helper()
	r := &Reply{Body: body, QuestionID: questionID, ParentReplyID: parentID, AuthorID: authorID}
	require.NoError(t, db.SaveReply(r))
	return r
}

func mustLike(t *testing.T, db *DB, userID, questionID int64) {
	t.Helper()
	_, err := db.LikeQuestion(userID, questionID)
	require.NoError(t, err)
}

func mustFollow(t *testing.T, db *DB, userID, questionID int64) {
	t.Helper()
	_, err := db.FollowQuestion(userID, questionID)
	require.NoError(t, err)
}

func TestNew_PinsSingleConnection(t *testing.T) {
	db := newTestDB(t)

	require.Equal(t, 1, db.Stats().MaxOpenConnections)
	require.NotEmpty(t, db.Path())
}

func TestEnsureSchema_IsRepeatable(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.EnsureSchema())

	counts, err := db.TableCounts()
	require.NoError(t, err)
	require.Len(t, counts, 5)
	for table, n := range counts {
		require.Zerof(t, n, "expected empty %s", table)
	}
}

func TestSplitSQLStatements_SkipsComments(t *testing.T) {
	stmts := splitSQLStatements(`
		-- leading comment
		CREATE TABLE a (id INTEGER);

		CREATE TABLE b (
			id INTEGER
		);
		SELECT 1
	`)

	require.Len(t, stmts, 3)
	require.Equal(t, "CREATE TABLE a (id INTEGER);", stmts[0])
	require.Equal(t, "SELECT 1", stmts[2])
}

func TestMaintenance_OptimizeAndVacuum(t *testing.T) {
	db := newTestDB(t)
	mustSaveUser(t, db, "Grace", "Hopper")

	require.NoError(t, db.Optimize())
	require.NoError(t, db.Vacuum())

	var nilDB *DB
	require.Error(t, nilDB.Optimize())
}
