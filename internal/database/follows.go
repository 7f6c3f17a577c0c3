package database

// QuestionFollow links a user to a question they follow
type QuestionFollow struct {
	ID         int64 `json:"id"`
	QuestionID int64 `json:"question_id"`
	UserID     int64 `json:"user_id"`
}

var questionFollows = finder[QuestionFollow]{table: "question_follows", decode: QuestionFollowFromRow}

// QuestionFollowFromRow decodes a question_follows row
func QuestionFollowFromRow(row Row) (*QuestionFollow, error) {
	d := newRowDecoder("question_follows", row)
	f := &QuestionFollow{
		ID:         d.id(),
		QuestionID: d.int64("question_id"),
		UserID:     d.int64("user_id"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return f, nil
}

// Row returns the follow's columns
func (f *QuestionFollow) Row() Row {
	row := Row{
		"question_id": f.QuestionID,
		"user_id":     f.UserID,
	}
	if f.ID != 0 {
		row["id"] = f.ID
	}
	return row
}

// FindQuestionFollowByID returns the follows with the given id
func (db *DB) FindQuestionFollowByID(id int64) ([]*QuestionFollow, error) {
	return questionFollows.byID(db, id)
}

// FindQuestionFollowsByQuestionID returns the follow rows of a question
func (db *DB) FindQuestionFollowsByQuestionID(questionID int64) ([]*QuestionFollow, error) {
	return questionFollows.by(db, "question_id", questionID)
}

// FindQuestionFollowsByUserID returns the follow rows of a user
func (db *DB) FindQuestionFollowsByUserID(userID int64) ([]*QuestionFollow, error) {
	return questionFollows.by(db, "user_id", userID)
}

// FollowQuestion records that a user follows a question. Follows are
// append-only; following twice adds a second row unless the schema forbids it.
func (db *DB) FollowQuestion(userID, questionID int64) (*QuestionFollow, error) {
	id, err := db.insert(`
		INSERT INTO question_follows (question_id, user_id)
		VALUES (?, ?)
	`, questionID, userID)
	if err != nil {
		return nil, err
	}
	return &QuestionFollow{ID: id, QuestionID: questionID, UserID: userID}, nil
}

// FollowersForQuestionID returns the users following a question
func (db *DB) FollowersForQuestionID(questionID int64) ([]*User, error) {
	return selectRecords(db, UserFromRow, `
		SELECT users.*
		FROM users
		JOIN question_follows ON users.id = question_follows.user_id
		WHERE question_follows.question_id = ?
	`, questionID)
}

// FollowedQuestionsForUserID returns the questions a user follows
func (db *DB) FollowedQuestionsForUserID(userID int64) ([]*Question, error) {
	return selectRecords(db, QuestionFromRow, `
		SELECT questions.*
		FROM questions
		JOIN question_follows ON questions.id = question_follows.question_id
		WHERE question_follows.user_id = ?
	`, userID)
}
