package handlers

import (
	"net/http"

	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/web/sse"
)

const defaultRankingLimit = 10

type questionRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int64  `json:"author_id"`
}

func (req *questionRequest) validate() error {
	return firstError(
		ValidateText(req.Title, "title", maxTitleLength),
		ValidateText(req.Body, "body", maxBodyLength),
		ValidateID(req.AuthorID, "author_id"),
	)
}

type associationRequest struct {
	UserID int64 `json:"user_id"`
}

func (req *associationRequest) validate() error {
	return ValidateID(req.UserID, "user_id")
}

// GetQuestion returns a single question
func (h *Handlers) GetQuestion(w http.ResponseWriter, r *http.Request) {
	if q, ok := load(h, w, r, h.db.FindQuestionByID, "Question"); ok {
		h.writeJSON(w, http.StatusOK, q)
	}
}

// QuestionAuthor returns the user who asked the question
func (h *Handlers) QuestionAuthor(w http.ResponseWriter, r *http.Request) {
	q, ok := load(h, w, r, h.db.FindQuestionByID, "Question")
	if !ok {
		return
	}
	authors, err := q.Author(h.db)
	one(h, w, r, authors, err, "Author")
}

// QuestionReplies returns every reply under the question
func (h *Handlers) QuestionReplies(w http.ResponseWriter, r *http.Request) {
	q, ok := load(h, w, r, h.db.FindQuestionByID, "Question")
	if !ok {
		return
	}
	replies, err := q.Replies(h.db)
	list(h, w, r, replies, err)
}

// QuestionFollowers returns the users following the question
func (h *Handlers) QuestionFollowers(w http.ResponseWriter, r *http.Request) {
	q, ok := load(h, w, r, h.db.FindQuestionByID, "Question")
	if !ok {
		return
	}
	followers, err := q.Followers(h.db)
	list(h, w, r, followers, err)
}

// QuestionLikers returns the users who liked the question
func (h *Handlers) QuestionLikers(w http.ResponseWriter, r *http.Request) {
	q, ok := load(h, w, r, h.db.FindQuestionByID, "Question")
	if !ok {
		return
	}
	likers, err := q.Likers(h.db)
	list(h, w, r, likers, err)
}

// QuestionStats returns like and follow counts for the question
func (h *Handlers) QuestionStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}
	likes, err := h.db.NumLikesForQuestionID(id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	followers, err := h.db.NumFollowersForQuestionID(id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"question_id": id,
		"likes":       likes,
		"followers":   followers,
	})
}

// MostLikedQuestions ranks questions by like count
func (h *Handlers) MostLikedQuestions(w http.ResponseWriter, r *http.Request) {
	n, ok := h.queryLimit(w, r, defaultRankingLimit)
	if !ok {
		return
	}
	ranked, err := h.db.MostLikedQuestionsWithCounts(n)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ranked)
}

// MostFollowedQuestions ranks questions by follow count
func (h *Handlers) MostFollowedQuestions(w http.ResponseWriter, r *http.Request) {
	n, ok := h.queryLimit(w, r, defaultRankingLimit)
	if !ok {
		return
	}
	ranked, err := h.db.MostFollowedQuestionsWithCounts(n)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ranked)
}

// CreateQuestion saves a new question
func (h *Handlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	q := &database.Question{Title: req.Title, Body: req.Body, AuthorID: req.AuthorID}
	if err := h.db.SaveQuestion(q); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventQuestionCreated, q.ID, q)
	h.writeJSON(w, http.StatusCreated, q)
}

// UpdateQuestion overwrites every column of an existing question
func (h *Handlers) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := load(h, w, r, h.db.FindQuestionByID, "Question")
	if !ok {
		return
	}
	var req questionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	q.Title, q.Body, q.AuthorID = req.Title, req.Body, req.AuthorID
	if err := h.db.SaveQuestion(q); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventQuestionUpdated, q.ID, q)
	h.writeJSON(w, http.StatusOK, q)
}

// LikeQuestion records a like from the user in the request body
func (h *Handlers) LikeQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}
	var req associationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	like, err := h.db.LikeQuestion(req.UserID, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventQuestionLiked, like.QuestionID, like)
	h.writeJSON(w, http.StatusCreated, like)
}

// FollowQuestion records a follow from the user in the request body
func (h *Handlers) FollowQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.urlID(w, r)
	if !ok {
		return
	}
	var req associationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	follow, err := h.db.FollowQuestion(req.UserID, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventQuestionFollowed, follow.QuestionID, follow)
	h.writeJSON(w, http.StatusCreated, follow)
}
