package database

// Question is a forum question
type Question struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int64  `json:"author_id"`
}

var questions = finder[Question]{table: "questions", decode: QuestionFromRow}

// QuestionFromRow decodes a questions row
func QuestionFromRow(row Row) (*Question, error) {
	d := newRowDecoder("questions", row)
	q := &Question{
		ID:       d.id(),
		Title:    d.string("title"),
		Body:     d.string("body"),
		AuthorID: d.int64("author_id"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return q, nil
}

// Row returns the question's columns. The id is left out until the question is saved.
func (q *Question) Row() Row {
	row := Row{
		"title":     q.Title,
		"body":      q.Body,
		"author_id": q.AuthorID,
	}
	if !q.IsNew() {
		row["id"] = q.ID
	}
	return row
}

// IsNew reports whether the question has not been saved yet
func (q *Question) IsNew() bool {
	return q.ID == 0
}

// FindQuestionByID returns the questions with the given id
func (db *DB) FindQuestionByID(id int64) ([]*Question, error) {
	return questions.byID(db, id)
}

// FindQuestionsByAuthorID returns the questions written by a user
func (db *DB) FindQuestionsByAuthorID(authorID int64) ([]*Question, error) {
	return questions.by(db, "author_id", authorID)
}

// SaveQuestion inserts a new question and records its id, or updates every
// column of an existing one.
func (db *DB) SaveQuestion(q *Question) error {
	if q == nil {
		return ErrNilRecord
	}

	if q.IsNew() {
		id, err := db.insert(`
			INSERT INTO questions (title, body, author_id)
			VALUES (?, ?, ?)
		`, q.Title, q.Body, q.AuthorID)
		if err != nil {
			return err
		}
		q.ID = id
		return nil
	}

	_, err := db.exec(`
		UPDATE questions SET title = ?, body = ?, author_id = ? WHERE id = ?
	`, q.Title, q.Body, q.AuthorID, q.ID)
	return err
}

// Author returns the user who asked the question
func (q *Question) Author(db *DB) ([]*User, error) {
	return db.FindUserByID(q.AuthorID)
}

// Replies returns every reply posted under the question
func (q *Question) Replies(db *DB) ([]*Reply, error) {
	return db.FindRepliesByQuestionID(q.ID)
}

// Followers returns the users following the question
func (q *Question) Followers(db *DB) ([]*User, error) {
	return db.FollowersForQuestionID(q.ID)
}

// Likers returns the users who liked the question
func (q *Question) Likers(db *DB) ([]*User, error) {
	return db.LikersForQuestionID(q.ID)
}

// NumLikes returns how many likes the question has
func (q *Question) NumLikes(db *DB) (int64, error) {
	return db.NumLikesForQuestionID(q.ID)
}

// NumFollowers returns how many follows the question has
func (q *Question) NumFollowers(db *DB) (int64, error) {
	return db.NumFollowersForQuestionID(q.ID)
}
