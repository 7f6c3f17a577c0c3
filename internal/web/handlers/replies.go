package handlers

import (
	"net/http"

	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/web/sse"
)

type replyRequest struct {
	Body          string `json:"body"`
	QuestionID    int64  `json:"question_id"`
	ParentReplyID *int64 `json:"parent_reply_id"`
	AuthorID      int64  `json:"author_id"`
}

func (req *replyRequest) validate() error {
	return firstError(
		ValidateText(req.Body, "body", maxBodyLength),
		ValidateID(req.QuestionID, "question_id"),
		ValidateOptionalID(req.ParentReplyID, "parent_reply_id"),
		ValidateID(req.AuthorID, "author_id"),
	)
}

// checkParent rejects a parent reply that is missing, belongs to another
// question or is the reply being saved.
func (h *Handlers) checkParent(w http.ResponseWriter, r *http.Request, req *replyRequest, replyID int64) bool {
	if req.ParentReplyID == nil {
		return true
	}
	if *req.ParentReplyID == replyID {
		h.jsonError(w, "A reply cannot be its own parent", http.StatusUnprocessableEntity)
		return false
	}
	parents, err := h.db.FindReplyByID(*req.ParentReplyID)
	if err != nil {
		h.storeError(w, r, err)
		return false
	}
	parent := database.First(parents)
	if parent == nil {
		h.jsonError(w, "Parent reply not found", http.StatusUnprocessableEntity)
		return false
	}
	if parent.QuestionID != req.QuestionID {
		h.jsonError(w, "Parent reply belongs to a different question", http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func (req replyRequest) apply(r *database.Reply) {
	r.Body = req.Body
	r.QuestionID = req.QuestionID
	r.ParentReplyID = req.ParentReplyID
	r.AuthorID = req.AuthorID
}

// GetReply returns a single reply
func (h *Handlers) GetReply(w http.ResponseWriter, r *http.Request) {
	if reply, ok := load(h, w, r, h.db.FindReplyByID, "Reply"); ok {
		h.writeJSON(w, http.StatusOK, reply)
	}
}

// ReplyParent returns the reply's parent, or 404 for a root reply
func (h *Handlers) ReplyParent(w http.ResponseWriter, r *http.Request) {
	reply, ok := load(h, w, r, h.db.FindReplyByID, "Reply")
	if !ok {
		return
	}
	parents, err := reply.ParentReply(h.db)
	one(h, w, r, parents, err, "Parent reply")
}

// ReplyChildren returns the replies nested directly under the reply
func (h *Handlers) ReplyChildren(w http.ResponseWriter, r *http.Request) {
	reply, ok := load(h, w, r, h.db.FindReplyByID, "Reply")
	if !ok {
		return
	}
	children, err := reply.ChildReplies(h.db)
	list(h, w, r, children, err)
}

// CreateReply saves a new reply
func (h *Handlers) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if !h.decodeBody(w, r, &req) || !h.checkParent(w, r, &req, 0) {
		return
	}
	reply := &database.Reply{}
	req.apply(reply)
	if err := h.db.SaveReply(reply); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventReplyCreated, reply.QuestionID, reply)
	h.writeJSON(w, http.StatusCreated, reply)
}

// UpdateReply overwrites every column of an existing reply
func (h *Handlers) UpdateReply(w http.ResponseWriter, r *http.Request) {
	reply, ok := load(h, w, r, h.db.FindReplyByID, "Reply")
	if !ok {
		return
	}
	var req replyRequest
	if !h.decodeBody(w, r, &req) || !h.checkParent(w, r, &req, reply.ID) {
		return
	}
	req.apply(reply)
	if err := h.db.SaveReply(reply); err != nil {
		h.storeError(w, r, err)
		return
	}
	h.publish(sse.EventReplyUpdated, reply.QuestionID, reply)
	h.writeJSON(w, http.StatusOK, reply)
}
