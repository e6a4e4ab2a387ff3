package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/LangHelper/internal/models"
)

// SyncWarning is shown to the user when a local change could not be mirrored.
const SyncWarning = "Failed to sync with vocabulary server"

// VocabularyRepository defines the persistence operations of the vocabulary store.
type VocabularyRepository interface {
	Add(ctx context.Context, userID int64, word string) (*models.VocabularyEntry, bool, error)
	Remove(ctx context.Context, userID, entryID int64) (string, bool, error)
	ToggleStar(ctx context.Context, userID, entryID int64) (bool, bool, error)
	List(ctx context.Context, userID int64, starredOnly bool) ([]models.VocabularyEntry, error)
}

// Syncer mirrors local changes into the extension list and imports from it.
type Syncer interface {
	SyncToExtension(ctx context.Context, userID int64, action models.SyncAction, word string) bool
	ImportFromExtension(ctx context.Context, userID int64) int
}

// VocabularyService commits vocabulary changes locally and then mirrors them.
// A failed mirror is reported but never undoes the local change.
type VocabularyService struct {
	repo VocabularyRepository
	sync Syncer
}

// NewVocabularyService constructs a VocabularyService.
func NewVocabularyService(repo VocabularyRepository, sync Syncer) *VocabularyService {
	return &VocabularyService{repo: repo, sync: sync}
}

// Add stores the word and mirrors it when it was new.
func (s *VocabularyService) Add(ctx context.Context, userID int64, word string) (models.AddResult, error) {
	if userID <= 0 {
		return models.AddResult{}, models.ErrMissingUser
	}
	entry, added, err := s.repo.Add(ctx, userID, word)
	if err != nil {
		return models.AddResult{}, err
	}
	res := models.AddResult{Entry: entry, Added: added}
	if added {
		res.Sync = s.mirror(ctx, userID, models.SyncAdd, entry.Word)
	}
	return res, nil
}

// Remove deletes the user's entry and mirrors the deletion.
func (s *VocabularyService) Remove(ctx context.Context, userID, entryID int64) (models.RemoveResult, error) {
	if userID <= 0 {
		return models.RemoveResult{}, models.ErrMissingUser
	}
	word, removed, err := s.repo.Remove(ctx, userID, entryID)
	if err != nil {
		return models.RemoveResult{}, err
	}
	res := models.RemoveResult{Word: word, Removed: removed}
	if removed {
		res.Sync = s.mirror(ctx, userID, models.SyncDelete, word)
	}
	return res, nil
}

// ToggleStar flips the starred flag of the user's entry.
func (s *VocabularyService) ToggleStar(ctx context.Context, userID, entryID int64) (bool, bool, error) {
	if userID <= 0 {
		return false, false, models.ErrMissingUser
	}
	starred, ok, err := s.repo.ToggleStar(ctx, userID, entryID)
	if err != nil || !ok {
		return false, ok, err
	}
	s.sync.SyncToExtension(ctx, userID, models.SyncUpdateStar, "")
	return starred, true, nil
}

// List returns the user's entries, newest first.
func (s *VocabularyService) List(ctx context.Context, userID int64, starredOnly bool) ([]models.VocabularyEntry, error) {
	entries, err := s.repo.List(ctx, userID, starredOnly)
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	return entries, nil
}

// Import pulls missing words from the extension list.
func (s *VocabularyService) Import(ctx context.Context, userID int64) int {
	return s.sync.ImportFromExtension(ctx, userID)
}

func (s *VocabularyService) mirror(ctx context.Context, userID int64, action models.SyncAction, word string) models.SyncReport {
	report := models.SyncReport{Attempted: true}
	report.OK = s.sync.SyncToExtension(ctx, userID, action, word)
	if !report.OK {
		report.Warning = SyncWarning
	}
	return report
}
