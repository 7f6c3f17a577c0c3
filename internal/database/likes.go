package database

// QuestionLike links a user to a question they liked
type QuestionLike struct {
	ID         int64 `json:"id"`
	QuestionID int64 `json:"question_id"`
	UserID     int64 `json:"user_id"`
}

var questionLikes = finder[QuestionLike]{table: "question_likes", decode: QuestionLikeFromRow}

// QuestionLikeFromRow decodes a question_likes row
func QuestionLikeFromRow(row Row) (*QuestionLike, error) {
	d := newRowDecoder("question_likes", row)
	l := &QuestionLike{
		ID:         d.id(),
		QuestionID: d.int64("question_id"),
		UserID:     d.int64("user_id"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return l, nil
}

// Row returns the like's columns
func (l *QuestionLike) Row() Row {
	row := Row{
		"question_id": l.QuestionID,
		"user_id":     l.UserID,
	}
	if l.ID != 0 {
		row["id"] = l.ID
	}
	return row
}

// FindQuestionLikeByID returns the likes with the given id
func (db *DB) FindQuestionLikeByID(id int64) ([]*QuestionLike, error) {
	return questionLikes.byID(db, id)
}

// FindQuestionLikesByQuestionID returns the like rows of a question
func (db *DB) FindQuestionLikesByQuestionID(questionID int64) ([]*QuestionLike, error) {
	return questionLikes.by(db, "question_id", questionID)
}

// FindQuestionLikesByUserID returns the like rows of a user
func (db *DB) FindQuestionLikesByUserID(userID int64) ([]*QuestionLike, error) {
	return questionLikes.by(db, "user_id", userID)
}

// LikeQuestion records that a user liked a question. Likes are append-only.
func (db *DB) LikeQuestion(userID, questionID int64) (*QuestionLike, error) {
	id, err := db.insert(`
		INSERT INTO question_likes (question_id, user_id)
		VALUES (?, ?)
	`, questionID, userID)
	if err != nil {
		return nil, err
	}
	return &QuestionLike{ID: id, QuestionID: questionID, UserID: userID}, nil
}

// LikersForQuestionID returns the users who liked a question
func (db *DB) LikersForQuestionID(questionID int64) ([]*User, error) {
	return selectRecords(db, UserFromRow, `
		SELECT users.*
		FROM users
		JOIN question_likes ON users.id = question_likes.user_id
		WHERE question_likes.question_id = ?
	`, questionID)
}

// LikedQuestionsForUserID returns the questions a user liked
func (db *DB) LikedQuestionsForUserID(userID int64) ([]*Question, error) {
	return selectRecords(db, QuestionFromRow, `
		SELECT questions.*
		FROM questions
		JOIN question_likes ON questions.id = question_likes.question_id
		WHERE question_likes.user_id = ?
	`, userID)
}
