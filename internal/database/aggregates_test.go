package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMostLikedQuestions(t *testing.T) {
	db := newTestDB(t)
	u1 := mustSaveUser(t, db, "A", "One")
	u2 := mustSaveUser(t, db, "B", "Two")
	u3 := mustSaveUser(t, db, "C", "Three")

	quiet := mustSaveQuestion(t, db, "quiet", u1.ID)
	popular := mustSaveQuestion(t, db, "popular", u1.ID)
	medium := mustSaveQuestion(t, db, "medium", u2.ID)

	for _, u := range []*User{u1, u2, u3} {
		mustLike(t, db, u.ID, popular.ID)
	}
	mustLike(t, db, u3.ID, medium.ID)

	t.Run("ordered by like count", func(t *testing.T) {
		ranked, err := db.MostLikedQuestionsWithCounts(10)
		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.Equal(t, popular, ranked[0].Question)
		assert.Equal(t, int64(3), ranked[0].Count)
		assert.Equal(t, medium, ranked[1].Question)
		assert.Equal(t, int64(1), ranked[1].Count)
		assert.Equal(t, quiet, ranked[2].Question, "zero-like questions rank last")
		assert.Equal(t, int64(0), ranked[2].Count)
	})

	t.Run("limit", func(t *testing.T) {
		top, err := db.MostLikedQuestions(2)
		require.NoError(t, err)
		assert.Equal(t, []*Question{popular, medium}, top)

		top, err = db.MostLikedQuestions(1)
		require.NoError(t, err)
		assert.Equal(t, []*Question{popular}, top)

		top, err = db.MostLikedQuestions(0)
		require.NoError(t, err)
		assert.Empty(t, top)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := db.MostLikedQuestions(-1)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}

func TestMostLikedQuestions_CountsNeverIncrease(t *testing.T) {
	db := newTestDB(t)
	var likers []*User
	for i := 0; i < 4; i++ {
		likers = append(likers, mustSaveUser(t, db, "U", string(rune('a'+i))))
	}
	// question i gets (i*3)%5 likes
	for i := 0; i < 6; i++ {
		q := mustSaveQuestion(t, db, "q", likers[0].ID)
		for j := 0; j < (i*3)%5 && j < len(likers); j++ {
			mustLike(t, db, likers[j].ID, q.ID)
		}
	}

	ranked, err := db.MostLikedQuestionsWithCounts(4)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Count, ranked[i].Count)
	}
	for _, r := range ranked {
		n, err := db.NumLikesForQuestionID(r.Question.ID)
		require.NoError(t, err)
		assert.Equal(t, r.Count, n)
	}
}

func TestMostFollowedQuestions(t *testing.T) {
	db := newTestDB(t)
	u1 := mustSaveUser(t, db, "A", "One")
	u2 := mustSaveUser(t, db, "B", "Two")

	first := mustSaveQuestion(t, db, "first", u1.ID)
	second := mustSaveQuestion(t, db, "second", u1.ID)
	mustFollow(t, db, u1.ID, second.ID)
	mustFollow(t, db, u2.ID, second.ID)
	mustFollow(t, db, u2.ID, first.ID)
	// likes must not affect follow ranking
	mustLike(t, db, u1.ID, first.ID)
	mustLike(t, db, u2.ID, first.ID)

	top, err := db.MostFollowedQuestions(1)
	require.NoError(t, err)
	assert.Equal(t, []*Question{second}, top)

	ranked, err := db.MostFollowedQuestionsWithCounts(5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].Count)
	assert.Equal(t, int64(1), ranked[1].Count)

	_, err = db.MostFollowedQuestions(-3)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestMostLikedQuestions_TiesFallBackToID(t *testing.T) {
	db := newTestDB(t)
	u := mustSaveUser(t, db, "T", "Ie")
	a := mustSaveQuestion(t, db, "a", u.ID)
	b := mustSaveQuestion(t, db, "b", u.ID)

	top, err := db.MostLikedQuestions(2)
	require.NoError(t, err)
	assert.Equal(t, []*Question{a, b}, top)
}

func TestNumLikesForQuestionID(t *testing.T) {
	db := newTestDB(t)
	u := mustSaveUser(t, db, "N", "Um")
	liked := mustSaveQuestion(t, db, "liked", u.ID)
	unliked := mustSaveQuestion(t, db, "unliked", u.ID)
	mustLike(t, db, u.ID, liked.ID)
	mustLike(t, db, u.ID, liked.ID)

	n, err := db.NumLikesForQuestionID(liked.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = db.NumLikesForQuestionID(unliked.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = db.NumLikesForQuestionID(9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = db.NumFollowersForQuestionID(liked.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestAverageKarma(t *testing.T) {
	db := newTestDB(t)
	author := mustSaveUser(t, db, "K", "Arma")
	idle := mustSaveUser(t, db, "I", "Dle")
	fans := []*User{
		mustSaveUser(t, db, "F", "One"),
		mustSaveUser(t, db, "F", "Two"),
		mustSaveUser(t, db, "F", "Three"),
	}

	hit := mustSaveQuestion(t, db, "hit", author.ID)
	mustSaveQuestion(t, db, "miss", author.ID)
	for _, f := range fans {
		mustLike(t, db, f.ID, hit.ID)
	}

	karma, err := author.AverageKarma(db)
	require.NoError(t, err)
	require.NotNil(t, karma)
	assert.InDelta(t, 1.5, *karma, 1e-9)

	karma, err = idle.AverageKarma(db)
	require.NoError(t, err)
	assert.Nil(t, karma, "no questions means an undefined average")

	unliked := mustSaveUser(t, db, "Z", "Ero")
	mustSaveQuestion(t, db, "crickets", unliked.ID)
	karma, err = db.AverageKarma(unliked.ID)
	require.NoError(t, err)
	require.NotNil(t, karma)
	assert.Zero(t, *karma)
}

func TestScenario_AdaLovelace(t *testing.T) {
	db := newTestDB(t)

	ada := &User{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, db.SaveUser(ada))

	found, err := db.FindUserByName("Ada", "Lovelace")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ada.ID, found[0].ID)

	q := &Question{Title: "T", Body: "notes on the analytical engine", AuthorID: ada.ID}
	require.NoError(t, db.SaveQuestion(q))

	authors, err := q.Author(db)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, ada, authors[0])

	charles := mustSaveUser(t, db, "Charles", "Babbage")
	mary := mustSaveUser(t, db, "Mary", "Somerville")
	mustLike(t, db, charles.ID, q.ID)
	mustLike(t, db, mary.ID, q.ID)

	n, err := db.NumLikesForQuestionID(q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	top, err := db.MostLikedQuestions(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, q.ID, top[0].ID)
}
