package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atinyakov/LangHelper/internal/middleware"
	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VocabularyService defines the vocabulary operations required by the VocabularyHandler.
type VocabularyService interface {
	Add(ctx context.Context, userID int64, word string) (models.AddResult, error)
	Remove(ctx context.Context, userID, entryID int64) (models.RemoveResult, error)
	ToggleStar(ctx context.Context, userID, entryID int64) (bool, bool, error)
	List(ctx context.Context, userID int64, starredOnly bool) ([]models.VocabularyEntry, error)
	Import(ctx context.Context, userID int64) int
}

// VocabularyHandler handles the authenticated /api/vocabulary endpoints.
type VocabularyHandler struct {
	VocabularyService VocabularyService
	Logger            *zap.Logger
}

// AddWordResponse wraps the add outcome with a user-facing message.
type AddWordResponse struct {
	models.AddResult
	Message string `json:"message"`
}

// RemoveWordResponse wraps the remove outcome with a user-facing message.
type RemoveWordResponse struct {
	models.RemoveResult
	Message string `json:"message"`
}

// StarResponse reports the new starred state of an entry.
type StarResponse struct {
	ID      int64 `json:"id"`
	Starred bool  `json:"starred"`
}

// List handles GET /api/vocabulary[?starred=true].
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	starredOnly := false
	if v := r.URL.Query().Get("starred"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid starred filter", http.StatusBadRequest)
			return
		}
		starredOnly = b
	}

	entries, err := h.VocabularyService.List(r.Context(), middleware.GetUserIDFromContext(r.Context()), starredOnly)
	if err != nil {
		h.fail(w, "list vocabulary failed", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Add handles POST /api/vocabulary with a {"word": "..."} body.
// A new word is answered with 201, an existing one with 200 and added=false.
// A failed mirror never changes the status; it is reported in sync.warning.
func (h *VocabularyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	res, err := h.VocabularyService.Add(r.Context(), middleware.GetUserIDFromContext(r.Context()), req.Word)
	if err != nil {
		h.fail(w, "add word failed", err)
		return
	}

	if !res.Added {
		writeJSON(w, http.StatusOK, AddWordResponse{
			AddResult: res,
			Message:   fmt.Sprintf("'%s' is already in your vocabulary!", strings.TrimSpace(req.Word)),
		})
		return
	}
	writeJSON(w, http.StatusCreated, AddWordResponse{
		AddResult: res,
		Message:   fmt.Sprintf("Added '%s' to your vocabulary!", res.Entry.Word),
	})
}

// Remove handles DELETE /api/vocabulary/{id}. Entries of other users are reported as 404.
func (h *VocabularyHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	res, err := h.VocabularyService.Remove(r.Context(), middleware.GetUserIDFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, "remove word failed", err)
		return
	}
	if !res.Removed {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, RemoveWordResponse{
		RemoveResult: res,
		Message:      fmt.Sprintf("'%s' has been removed!", res.Word),
	})
}

// ToggleStar handles POST /api/vocabulary/{id}/star.
func (h *VocabularyHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	starred, found, err := h.VocabularyService.ToggleStar(r.Context(), middleware.GetUserIDFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, "toggle star failed", err)
		return
	}
	if !found {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, StarResponse{ID: id, Starred: starred})
}

// Import handles POST /api/vocabulary/import.
func (h *VocabularyHandler) Import(w http.ResponseWriter, r *http.Request) {
	n := h.VocabularyService.Import(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (h *VocabularyHandler) fail(w http.ResponseWriter, msg string, err error) {
	if h.Logger != nil && statusFor(err) == http.StatusInternalServerError {
		h.Logger.Error(msg, zap.Error(err))
	}
	writeError(w, err)
}

func entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid entry id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
