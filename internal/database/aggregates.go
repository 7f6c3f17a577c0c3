package database

import (
	"database/sql"
	"fmt"

	"github.com/samber/lo"
)

// RankedQuestion is a question together with the number of association rows
// (likes or follows) it was ranked by
type RankedQuestion struct {
	Question *Question `json:"question"`
	Count    int64     `json:"count"`
}

// rankQuestions orders questions by how many rows of the association table
// point at them. The outer join keeps questions with no rows (count 0) at the
// bottom of the ranking; equal counts fall back to id order.
func (db *DB) rankQuestions(association string, n int) ([]RankedQuestion, error) {
	if n < 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := db.query(fmt.Sprintf(`
		SELECT questions.*, COUNT(%[1]s.id) AS association_count
		FROM questions
		LEFT OUTER JOIN %[1]s ON questions.id = %[1]s.question_id
		GROUP BY questions.id
		ORDER BY association_count DESC, questions.id ASC
		LIMIT ?
	`, association), n)
	if err != nil {
		return nil, err
	}

	raw, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedQuestion, 0, len(raw))
	for _, row := range raw {
		q, err := QuestionFromRow(row)
		if err != nil {
			return nil, err
		}
		d := newRowDecoder(association, row)
		count := d.int64("association_count")
		if d.err != nil {
			return nil, d.err
		}
		ranked = append(ranked, RankedQuestion{Question: q, Count: count})
	}
	return ranked, nil
}

// MostFollowedQuestionsWithCounts returns up to n questions with their follow counts, most followed first
func (db *DB) MostFollowedQuestionsWithCounts(n int) ([]RankedQuestion, error) {
	return db.rankQuestions("question_follows", n)
}

// MostLikedQuestionsWithCounts returns up to n questions with their like counts, most liked first
func (db *DB) MostLikedQuestionsWithCounts(n int) ([]RankedQuestion, error) {
	return db.rankQuestions("question_likes", n)
}

// MostFollowedQuestions returns up to n questions, most followed first
func (db *DB) MostFollowedQuestions(n int) ([]*Question, error) {
	ranked, err := db.MostFollowedQuestionsWithCounts(n)
	if err != nil {
		return nil, err
	}
	return rankedQuestions(ranked), nil
}

// MostLikedQuestions returns up to n questions, most liked first
func (db *DB) MostLikedQuestions(n int) ([]*Question, error) {
	ranked, err := db.MostLikedQuestionsWithCounts(n)
	if err != nil {
		return nil, err
	}
	return rankedQuestions(ranked), nil
}

func rankedQuestions(ranked []RankedQuestion) []*Question {
	return lo.Map(ranked, func(r RankedQuestion, _ int) *Question {
		return r.Question
	})
}

// countForQuestion counts association rows for one question. Unknown
// questions and questions without rows both count 0.
func (db *DB) countForQuestion(association string, questionID int64) (int64, error) {
	var count int64
	err := db.queryRow(fmt.Sprintf(`
		SELECT COUNT(%[1]s.id)
		FROM questions
		LEFT OUTER JOIN %[1]s ON questions.id = %[1]s.question_id
		WHERE questions.id = ?
	`, association), questionID).Scan(&count)
	return count, err
}

// NumLikesForQuestionID returns how many likes a question has
func (db *DB) NumLikesForQuestionID(questionID int64) (int64, error) {
	return db.countForQuestion("question_likes", questionID)
}

// NumFollowersForQuestionID returns how many follows a question has
func (db *DB) NumFollowersForQuestionID(questionID int64) (int64, error) {
	return db.countForQuestion("question_follows", questionID)
}

// AverageKarma returns the total likes on a user's questions divided by the
// number of questions they asked. With no questions the division is by zero
// and the result is nil.
func (db *DB) AverageKarma(userID int64) (*float64, error) {
	var karma sql.NullFloat64
	err := db.queryRow(`
		SELECT CAST(COUNT(question_likes.id) AS REAL) / COUNT(DISTINCT questions.id)
		FROM questions
		LEFT OUTER JOIN question_likes ON questions.id = question_likes.question_id
		WHERE questions.author_id = ?
	`, userID).Scan(&karma)
	if err != nil {
		return nil, err
	}
	return nullFloat64ToPtr(karma), nil
}
