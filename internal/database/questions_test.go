package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveQuestion_InsertThenFind(t *testing.T) {
	db := newTestDB(t)
	author := mustSaveUser(t, db, "Alan", "Turing")

	q := &Question{Title: "Can machines think?", Body: "Discuss.", AuthorID: author.ID}
	require.True(t, q.IsNew())
	require.NoError(t, db.SaveQuestion(q))
	require.NotZero(t, q.ID)

	found, err := db.FindQuestionByID(q.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, q, found[0])
}

func TestSaveQuestion_UpdatesEveryColumn(t *testing.T) {
	db := newTestDB(t)
	first := mustSaveUser(t, db, "Alan", "Turing")
	second := mustSaveUser(t, db, "Alonzo", "Church")
	q := mustSaveQuestion(t, db, "Old title", first.ID)
	id := q.ID

	q.Title = "New title"
	q.Body = "New body"
	q.AuthorID = second.ID
	require.NoError(t, db.SaveQuestion(q))
	assert.Equal(t, id, q.ID, "update must not change the id")

	found, err := db.FindQuestionByID(id)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, &Question{ID: id, Title: "New title", Body: "New body", AuthorID: second.ID}, found[0])
}

func TestSaveQuestion_SecondSaveIsNoOp(t *testing.T) {
	db := newTestDB(t)
	author := mustSaveUser(t, db, "Alan", "Turing")
	q := mustSaveQuestion(t, db, "Stable", author.ID)

	require.NoError(t, db.SaveQuestion(q))
	require.NoError(t, db.SaveQuestion(q))

	found, err := db.FindQuestionByID(q.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, q, found[0])

	counts, err := db.TableCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["questions"])
}

func TestSaveQuestion_Errors(t *testing.T) {
	db := newTestDB(t)

	assert.ErrorIs(t, db.SaveQuestion(nil), ErrNilRecord)

	q := &Question{Title: "Orphan", Body: "no author", AuthorID: 999}
	err := db.SaveQuestion(q)
	require.Error(t, err, "foreign key violation should surface")
	assert.True(t, IsConstraintViolation(err))
	assert.True(t, q.IsNew(), "failed insert must not assign an id")

	assert.False(t, IsConstraintViolation(ErrNilRecord))
}

func TestFindQuestion_EmptyResult(t *testing.T) {
	db := newTestDB(t)

	found, err := db.FindQuestionByID(42)
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
	assert.Nil(t, First(found))
}

func TestFindQuestionsByAuthorID(t *testing.T) {
	db := newTestDB(t)
	alan := mustSaveUser(t, db, "Alan", "Turing")
	alonzo := mustSaveUser(t, db, "Alonzo", "Church")
	q1 := mustSaveQuestion(t, db, "one", alan.ID)
	mustSaveQuestion(t, db, "two", alonzo.ID)
	q3 := mustSaveQuestion(t, db, "three", alan.ID)

	found, err := db.FindQuestionsByAuthorID(alan.ID)
	require.NoError(t, err)
	assert.Equal(t, []*Question{q1, q3}, found)

	authored, err := alan.AuthoredQuestions(db)
	require.NoError(t, err)
	assert.Equal(t, found, authored)
}

func TestQuestion_Relationships(t *testing.T) {
	db := newTestDB(t)
	author := mustSaveUser(t, db, "Alan", "Turing")
	fan := mustSaveUser(t, db, "Joan", "Clarke")
	other := mustSaveUser(t, db, "Max", "Newman")
	q := mustSaveQuestion(t, db, "Enigma?", author.ID)
	unrelated := mustSaveQuestion(t, db, "Bombe?", author.ID)

	r1 := mustSaveReply(t, db, q.ID, nil, fan.ID, "yes")
	r2 := mustSaveReply(t, db, q.ID, &r1.ID, other.ID, "indeed")
	mustSaveReply(t, db, unrelated.ID, nil, fan.ID, "elsewhere")

	mustFollow(t, db, fan.ID, q.ID)
	mustFollow(t, db, other.ID, q.ID)
	mustLike(t, db, fan.ID, q.ID)

	t.Run("author", func(t *testing.T) {
		authors, err := q.Author(db)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, author, authors[0])
	})

	t.Run("replies", func(t *testing.T) {
		found, err := q.Replies(db)
		require.NoError(t, err)
		assert.Equal(t, []*Reply{r1, r2}, found)
	})

	t.Run("followers", func(t *testing.T) {
		followers, err := q.Followers(db)
		require.NoError(t, err)
		assert.ElementsMatch(t, []*User{fan, other}, followers)

		n, err := q.NumFollowers(db)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("likers", func(t *testing.T) {
		likers, err := q.Likers(db)
		require.NoError(t, err)
		assert.Equal(t, []*User{fan}, likers)

		n, err := q.NumLikes(db)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("fresh records on every call", func(t *testing.T) {
		a, err := q.Author(db)
		require.NoError(t, err)
		b, err := q.Author(db)
		require.NoError(t, err)
		assert.Equal(t, a[0], b[0])
		assert.NotSame(t, a[0], b[0])
	})
}
