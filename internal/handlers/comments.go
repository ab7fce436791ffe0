package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"podstudio/internal/comments"
	"podstudio/internal/models"
)

type addCommentRequest struct {
	Content       string                 `json:"content"`
	TextSelection *models.TextSelection  `json:"text_selection,omitempty"`
	ParentID      *int                   `json:"parent_id,omitempty"`
	Priority      models.CommentPriority `json:"priority,omitempty"`
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	var req addCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.AddComment(id, user.ID, req.Content, req.TextSelection, req.ParentID, req.Priority)
	if err != nil {
		if errors.Is(err, comments.ErrInvalidPriority) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to add comment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	id, err := episodeID(r)
	if err != nil {
		http.Error(w, "Invalid episode ID", http.StatusBadRequest)
		return
	}

	threaded, err := h.comments.GetThreadedComments(id)
	if err != nil {
		http.Error(w, "Failed to load comments", http.StatusInternalServerError)
		return
	}
	if threaded == nil {
		threaded = []*models.Comment{}
	}

	writeJSON(w, http.StatusOK, threaded)
}

type updateCommentStatusRequest struct {
	Status models.CommentStatus `json:"status"`
}

func (h *Handlers) UpdateCommentStatus(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	var req updateCommentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.comments.UpdateStatus(commentID, req.Status); err != nil {
		if errors.Is(err, comments.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update comment status", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type addReactionRequest struct {
	Emoji string `json:"emoji"`
}

func (h *Handlers) AddReaction(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	commentID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	var req addReactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Emoji == "" {
		http.Error(w, "emoji is required", http.StatusBadRequest)
		return
	}

	reaction, err := h.comments.AddReaction(commentID, user.ID, req.Emoji)
	if err != nil {
		http.Error(w, "Failed to add reaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, reaction)
}
