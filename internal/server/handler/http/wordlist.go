package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atinyakov/LangHelper/internal/models"
	"go.uber.org/zap"
)

// WordListService defines the operations of the extension-side list service.
type WordListService interface {
	Add(ctx context.Context, userID int64, word string) (string, bool, error)
	List(ctx context.Context, userID int64) ([]string, error)
	Remove(ctx context.Context, userID int64, word string) (string, bool, error)
}

// WordListHandler serves /api/vocabulary for the browser extension and the main app.
type WordListHandler struct {
	Service WordListService
	Logger  *zap.Logger
}

// WordRequest is the body of add and remove requests.
type WordRequest struct {
	Word   string `json:"word"`
	UserID int64  `json:"user_id"`
}

// WordListResponse is the acknowledgement of add and remove requests.
type WordListResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Add handles POST /api/vocabulary. A duplicate is not an error: it is answered
// with 200 and success=false.
func (h *WordListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req WordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, WordListResponse{Message: "invalid request"})
		return
	}

	word, added, err := h.Service.Add(r.Context(), req.UserID, req.Word)
	if err != nil {
		h.fail(w, "add word failed", err)
		return
	}
	if !added {
		writeJSON(w, http.StatusOK, WordListResponse{Message: fmt.Sprintf("'%s' already exists.", word)})
		return
	}
	writeJSON(w, http.StatusOK, WordListResponse{Success: true, Message: fmt.Sprintf("'%s' has been saved!", word)})
}

// List handles GET /api/vocabulary?user_id=N and answers with a JSON array of words.
func (h *WordListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		h.fail(w, "list words failed", models.ErrMissingUser)
		return
	}

	words, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.fail(w, "list words failed", err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// Remove handles DELETE /api/vocabulary. A word that is not in the list is a 404.
func (h *WordListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req WordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, WordListResponse{Message: "invalid request"})
		return
	}

	word, removed, err := h.Service.Remove(r.Context(), req.UserID, req.Word)
	if err != nil {
		h.fail(w, "remove word failed", err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, WordListResponse{Message: fmt.Sprintf("'%s' not found in vocabulary.", word)})
		return
	}
	writeJSON(w, http.StatusOK, WordListResponse{Success: true, Message: fmt.Sprintf("'%s' has been removed!", word)})
}

func (h *WordListHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if h.Logger != nil {
			h.Logger.Error(msg, zap.Error(err))
		}
		err = errors.New("internal error")
	}
	writeJSON(w, status, WordListResponse{Message: err.Error()})
}
