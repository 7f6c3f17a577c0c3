package database

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	return Wrap(conn, ""), mock
}

func TestFindUserByName_BindsParameters(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "fname", "lname"}).
		AddRow(int64(1), "Ada", "Lovelace")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE users.fname = ? AND users.lname = ?")).
		WithArgs("Ada", "Lovelace").
		WillReturnRows(rows)

	found, err := db.FindUserByName("Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, []*User{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertUsesGeneratedID(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO replies (body, question_id, parent_reply_id, author_id) VALUES (?, ?, ?, ?)")).
		WithArgs("hi", int64(3), nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	r := &Reply{Body: "hi", QuestionID: 3, AuthorID: 2}
	require.NoError(t, db.SaveReply(r))
	assert.Equal(t, int64(42), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpdateFiltersByID(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE questions SET title = ?, body = ?, author_id = ? WHERE id = ?")).
		WithArgs("T", "B", int64(2), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.SaveQuestion(&Question{ID: 9, Title: "T", Body: "B", AuthorID: 2}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorsPropagateUnwrapped(t *testing.T) {
	storeErr := errors.New("disk I/O error")

	t.Run("finder", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM questions WHERE questions.id = ?")).
			WithArgs(int64(1)).
			WillReturnError(storeErr)

		found, err := db.FindQuestionByID(1)
		assert.Nil(t, found)
		assert.Same(t, storeErr, err)
	})

	t.Run("save", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (fname, lname)")).
			WillReturnError(storeErr)

		u := &User{FirstName: "a", LastName: "b"}
		assert.Same(t, storeErr, db.SaveUser(u))
		assert.True(t, u.IsNew())
	})

	t.Run("aggregate", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("LIMIT ?")).
			WithArgs(int64(3)).
			WillReturnError(storeErr)

		_, err := db.MostFollowedQuestions(3)
		assert.Same(t, storeErr, err)
	})
}

func TestFinder_DecodeErrorOnUnexpectedColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "title"}).AddRow(int64(1), "no body")
	mock.ExpectQuery(regexp.QuoteMeta("FROM questions WHERE questions.author_id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	_, err := db.FindQuestionsByAuthorID(5)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "body", decodeErr.Column)
}
