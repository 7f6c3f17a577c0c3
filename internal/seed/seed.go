// Package seed fills a forum database with generated users, questions,
// threaded replies, likes and follows. Intended for development and demos.
package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"

	"github.com/saltyorg/qaforum/internal/database"
)

// Options controls how much data is generated
type Options struct {
	Users     int
	Questions int
	Replies   int
	Likes     int
	Follows   int
	// Seed makes generation repeatable; 0 picks a random seed
	Seed int64
}

// DefaultOptions returns a small demo-sized data set
func DefaultOptions() Options {
	return Options{
		Users:     10,
		Questions: 20,
		Replies:   40,
		Likes:     60,
		Follows:   30,
	}
}

// Result counts the rows created
type Result struct {
	Users     int `json:"users"`
	Questions int `json:"questions"`
	Replies   int `json:"replies"`
	Likes     int `json:"likes"`
	Follows   int `json:"follows"`
}

type pair struct {
	userID     int64
	questionID int64
}

// Run generates data through the persistence layer
func Run(db *database.DB, opts Options) (*Result, error) {
	if opts.Users <= 0 {
		return nil, fmt.Errorf("at least one user is required")
	}
	if opts.Questions <= 0 && (opts.Replies > 0 || opts.Likes > 0 || opts.Follows > 0) {
		return nil, fmt.Errorf("replies, likes and follows require at least one question")
	}

	faker := gofakeit.New(opts.Seed)
	pick := func(n int) int { return faker.Number(0, n-1) }
	res := &Result{}

	users := make([]*database.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u := &database.User{FirstName: faker.FirstName(), LastName: faker.LastName()}
		if err := db.SaveUser(u); err != nil {
			return res, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, u)
		res.Users++
	}

	questions := make([]*database.Question, 0, opts.Questions)
	for i := 0; i < opts.Questions; i++ {
		q := &database.Question{
			Title:    strings.TrimSpace(faker.Question()),
			Body:     faker.Paragraph(1, 3, 12, " "),
			AuthorID: users[pick(len(users))].ID,
		}
		if err := db.SaveQuestion(q); err != nil {
			return res, fmt.Errorf("failed to create question: %w", err)
		}
		questions = append(questions, q)
		res.Questions++
	}

	// replies nest only under earlier replies of the same question, so the
	// generated threads never contain cycles
	threads := make(map[int64][]*database.Reply, len(questions))
	for i := 0; i < opts.Replies; i++ {
		q := questions[pick(len(questions))]
		r := &database.Reply{
			Body:       faker.Sentence(faker.Number(4, 16)),
			QuestionID: q.ID,
			AuthorID:   users[pick(len(users))].ID,
		}
		if thread := threads[q.ID]; len(thread) > 0 && faker.Bool() {
			parentID := thread[pick(len(thread))].ID
			r.ParentReplyID = &parentID
		}
		if err := db.SaveReply(r); err != nil {
			return res, fmt.Errorf("failed to create reply: %w", err)
		}
		threads[q.ID] = append(threads[q.ID], r)
		res.Replies++
	}

	maxPairs := len(users) * len(questions)

	liked := make(map[pair]bool)
	for len(liked) < min(opts.Likes, maxPairs) {
		p := pair{users[pick(len(users))].ID, questions[pick(len(questions))].ID}
		if liked[p] {
			continue
		}
		if _, err := db.LikeQuestion(p.userID, p.questionID); err != nil {
			return res, fmt.Errorf("failed to create like: %w", err)
		}
		liked[p] = true
		res.Likes++
	}

	followed := make(map[pair]bool)
	for len(followed) < min(opts.Follows, maxPairs) {
		p := pair{users[pick(len(users))].ID, questions[pick(len(questions))].ID}
		if followed[p] {
			continue
		}
		if _, err := db.FollowQuestion(p.userID, p.questionID); err != nil {
			return res, fmt.Errorf("failed to create follow: %w", err)
		}
		followed[p] = true
		res.Follows++
	}

	log.Info().
		Int("users", res.Users).
		Int("questions", res.Questions).
		Int("replies", res.Replies).
		Int("likes", res.Likes).
		Int("follows", res.Follows).
		Msg("Seeded forum database")

	return res, nil
}
