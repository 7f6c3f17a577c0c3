package handlers

import (
	"net/http"

	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/web/sse"
)

type userRequest struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}

func (req *userRequest) validate() error {
	return firstError(
		ValidateText(req.FirstName, "fname", maxNameLength),
		ValidateText(req.LastName, "lname", maxNameLength),
	)
}

// FindUsers looks users up by exact first and last name
func (h *Handlers) FindUsers(w http.ResponseWriter, r *http.Request) {
	first, last := r.URL.Query().Get("fname"), r.URL.Query().Get("lname")
	if first == "" || last == "" {
		h.jsonError(w, "fname and lname are required", http.StatusBadRequest)
		return
	}
	users, err := h.db.FindUserByName(first, last)
	list(h, w, r, users, err)
}

// GetUser returns a single user
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	if u, ok := load(h, w, r, h.db.FindUserByID, "User"); ok {
		h.writeJSON(w, http.StatusOK, u)
	}
}

// UserQuestions returns the questions the user asked
func (h *Handlers) UserQuestions(w http.ResponseWriter, r *http.Request) {
	u, ok := load(h, w, r, h.db.FindUserByID, "User")
	if !ok {
		return
	}
	questions, err := u.AuthoredQuestions(h.db)
	list(h, w, r, questions, err)
}

// UserReplies returns the replies the user wrote
func (h *Handlers) UserReplies(w http.ResponseWriter, r *http.Request) {
	u, ok := load(h, w, r, h.db.FindUserByID, "User")
	if !ok {
		return
	}
	replies, err := u.AuthoredReplies(h.db)
	list(h, w, r, replies, err)
}

// UserFollowedQuestions returns the questions the user follows
func (h *Handlers) UserFollowedQuestions(w http.ResponseWriter, r *http.Request) {
	u, ok := load(h, w, r, h.db.FindUserByID, "User")
	if !ok {
		return
	}
	questions, err := u.FollowedQuestions(h.db)
	list(h, w, r, questions, err)
}

// UserLikedQuestions returns the questions the user liked
func (h *Handlers) UserLikedQuestions(w http.ResponseWriter, r *http.Request) {
	u, ok := load(h, w, r, h.db.FindUserByID, "User")
	if !ok {
		return
	}
	questions, err := u.LikedQuestions(h.db)
	list(h, w, r, questions, err)
}

// UserKarma returns the user's average likes per question; null when the
// user has asked nothing
func (h *Handlers) UserKarma(w http.ResponseWriter, r *http.Request) {
	u, ok := load(h, w, r, h.db.FindUserByID, "User")
	if !ok {
		return
	}
	karma, err := u.AverageKarma(h.db)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"user_id":       u.ID,
		"average_karma": karma,
	})
}

// CreateUser saves a new user
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	u := &database.User{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.db.SaveUser(u); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventUserCreated, 0, u)
	h.writeJSON(w, http.StatusCreated, u)
}

// UpdateUser overwrites both names of an existing user
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	u, ok := load(h, w, r, h.db.FindUserByID, "User")
	if !ok {
		return
	}
	var req userRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	u.FirstName, u.LastName = req.FirstName, req.LastName
	if err := h.db.SaveUser(u); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventUserUpdated, 0, u)
	h.writeJSON(w, http.StatusOK, u)
}
