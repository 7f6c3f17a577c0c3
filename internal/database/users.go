package database

// User is a forum member
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}

var users = finder[User]{table: "users", decode: UserFromRow}

// UserFromRow decodes a users row
func UserFromRow(row Row) (*User, error) {
	d := newRowDecoder("users", row)
	u := &User{
		ID:        d.id(),
		FirstName: d.string("fname"),
		LastName:  d.string("lname"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return u, nil
}

// Row returns the user's columns. The id is left out until the user is saved.
func (u *User) Row() Row {
	row := Row{
		"fname": u.FirstName,
		"lname": u.LastName,
	}
	if !u.IsNew() {
		row["id"] = u.ID
	}
	return row
}

// IsNew reports whether the user has not been saved yet
func (u *User) IsNew() bool {
	return u.ID == 0
}

// FindUserByID returns the users with the given id
func (db *DB) FindUserByID(id int64) ([]*User, error) {
	return users.byID(db, id)
}

// FindUserByName returns the users with an exact first and last name match
func (db *DB) FindUserByName(firstName, lastName string) ([]*User, error) {
	return users.where(db, "users.fname = ? AND users.lname = ?", firstName, lastName)
}

// SaveUser inserts a new user and records its id, or updates every column of
// an existing one.
func (db *DB) SaveUser(u *User) error {
	if u == nil {
		return ErrNilRecord
	}

	if u.IsNew() {
		id, err := db.insert(`
			INSERT INTO users (fname, lname)
			VALUES (?, ?)
		`, u.FirstName, u.LastName)
		if err != nil {
			return err
		}
		u.ID = id
		return nil
	}

	_, err := db.exec("UPDATE users SET fname = ?, lname = ? WHERE id = ?", u.FirstName, u.LastName, u.ID)
	return err
}

// AuthoredQuestions returns the questions the user asked
func (u *User) AuthoredQuestions(db *DB) ([]*Question, error) {
	return db.FindQuestionsByAuthorID(u.ID)
}

// AuthoredReplies returns the replies the user wrote
func (u *User) AuthoredReplies(db *DB) ([]*Reply, error) {
	return db.FindRepliesByUserID(u.ID)
}

// FollowedQuestions returns the questions the user follows
func (u *User) FollowedQuestions(db *DB) ([]*Question, error) {
	return db.FollowedQuestionsForUserID(u.ID)
}

// LikedQuestions returns the questions the user liked
func (u *User) LikedQuestions(db *DB) ([]*Question, error) {
	return db.LikedQuestionsForUserID(u.ID)
}

// AverageKarma returns the mean number of likes across the user's questions.
// It is nil for a user who has asked nothing.
func (u *User) AverageKarma(db *DB) (*float64, error) {
	return db.AverageKarma(u.ID)
}
