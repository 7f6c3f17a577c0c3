package database

// Reply is an answer to a question, optionally nested under another reply of
// the same question. Nothing here stops parent links from forming a cycle.
type Reply struct {
	ID            int64  `json:"id"`
	Body          string `json:"body"`
	QuestionID    int64  `json:"question_id"`
	ParentReplyID *int64 `json:"parent_reply_id"`
	AuthorID      int64  `json:"author_id"`
}

var replies = finder[Reply]{table: "replies", decode: ReplyFromRow}

// ReplyFromRow decodes a replies row
func ReplyFromRow(row Row) (*Reply, error) {
	d := newRowDecoder("replies", row)
	r := &Reply{
		ID:            d.id(),
		Body:          d.string("body"),
		QuestionID:    d.int64("question_id"),
		ParentReplyID: d.nullInt64("parent_reply_id"),
		AuthorID:      d.int64("author_id"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return r, nil
}

// Row returns the reply's columns. The id is left out until the reply is saved.
func (r *Reply) Row() Row {
	row := Row{
		"body":            r.Body,
		"question_id":     r.QuestionID,
		"parent_reply_id": int64PtrValue(r.ParentReplyID),
		"author_id":       r.AuthorID,
	}
	if !r.IsNew() {
		row["id"] = r.ID
	}
	return row
}

// IsNew reports whether the reply has not been saved yet
func (r *Reply) IsNew() bool {
	return r.ID == 0
}

// IsRoot reports whether the reply answers the question directly
func (r *Reply) IsRoot() bool {
	return r.ParentReplyID == nil
}

// FindReplyByID returns the replies with the given id
func (db *DB) FindReplyByID(id int64) ([]*Reply, error) {
	return replies.byID(db, id)
}

// FindRepliesByQuestionID returns every reply posted under a question
func (db *DB) FindRepliesByQuestionID(questionID int64) ([]*Reply, error) {
	return replies.by(db, "question_id", questionID)
}

// FindRepliesByUserID returns every reply written by a user
func (db *DB) FindRepliesByUserID(userID int64) ([]*Reply, error) {
	return replies.by(db, "author_id", userID)
}

// FindRepliesByParentID returns the direct children of a reply
func (db *DB) FindRepliesByParentID(parentID int64) ([]*Reply, error) {
	return replies.by(db, "parent_reply_id", parentID)
}

// SaveReply inserts a new reply and records its id, or updates every column
// of an existing one.
func (db *DB) SaveReply(r *Reply) error {
	if r == nil {
		return ErrNilRecord
	}

	if r.IsNew() {
		id, err := db.insert(`
			INSERT INTO replies (body, question_id, parent_reply_id, author_id)
			VALUES (?, ?, ?, ?)
		`, r.Body, r.QuestionID, int64PtrValue(r.ParentReplyID), r.AuthorID)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	}

	_, err := db.exec(`
		UPDATE replies SET body = ?, question_id = ?, parent_reply_id = ?, author_id = ?
		WHERE id = ?
	`, r.Body, r.QuestionID, int64PtrValue(r.ParentReplyID), r.AuthorID, r.ID)
	return err
}

// Author returns the user who wrote the reply
func (r *Reply) Author(db *DB) ([]*User, error) {
	return db.FindUserByID(r.AuthorID)
}

// Question returns the question the reply belongs to
func (r *Reply) Question(db *DB) ([]*Question, error) {
	return db.FindQuestionByID(r.QuestionID)
}

// ParentReply returns the reply this one is nested under, or an empty slice
// for a root reply.
func (r *Reply) ParentReply(db *DB) ([]*Reply, error) {
	if r.ParentReplyID == nil {
		return []*Reply{}, nil
	}
	return db.FindReplyByID(*r.ParentReplyID)
}

// ChildReplies returns the replies nested directly under this one
func (r *Reply) ChildReplies(db *DB) ([]*Reply, error) {
	return db.FindRepliesByParentID(r.ID)
}
