package service

import (
	"context"
	"strings"

	"github.com/atinyakov/LangHelper/internal/models"
	"go.uber.org/zap"
)

// ExtensionClient is the remote word list the orchestrator mirrors into.
type ExtensionClient interface {
	AddWord(ctx context.Context, userID int64, word string) error
	RemoveWord(ctx context.Context, userID int64, word string) error
	ListWords(ctx context.Context, userID int64) ([]string, error)
}

// LocalVocabulary is the part of the vocabulary store the orchestrator needs.
type LocalVocabulary interface {
	Exists(ctx context.Context, userID int64, word string) (bool, error)
	AddMissing(ctx context.Context, userID int64, words []string) (int, error)
}

// SyncOrchestrator keeps the extension word list in step with the vocabulary store.
// Mirroring is best effort: failures are logged and reported, never retried.
type SyncOrchestrator struct {
	ext   ExtensionClient
	local LocalVocabulary
	log   *zap.Logger
}

// NewSyncOrchestrator constructs a SyncOrchestrator. A nil logger disables logging.
func NewSyncOrchestrator(ext ExtensionClient, local LocalVocabulary, log *zap.Logger) *SyncOrchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncOrchestrator{ext: ext, local: local, log: log}
}

// SyncToExtension mirrors one local mutation and reports whether the extension
// list acknowledged it.
//
// An add is only sent while the word is still in the local store, and a delete
// only while it is absent, so a concurrent opposite mutation is not overwritten
// remotely. Star updates never leave the process.
func (o *SyncOrchestrator) SyncToExtension(ctx context.Context, userID int64, action models.SyncAction, word string) bool {
	if action == models.SyncUpdateStar {
		return true
	}

	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}

	log := o.log.With(zap.Int64("user_id", userID), zap.String("action", string(action)), zap.String("word", word))

	present, err := o.local.Exists(ctx, userID, word)
	if err != nil {
		log.Warn("failed to check local vocabulary", zap.Error(err))
		return false
	}

	switch action {
	case models.SyncAdd:
		if !present {
			log.Info("word no longer present locally, skipping mirror")
			return false
		}
		err = o.ext.AddWord(ctx, userID, word)
	case models.SyncDelete:
		if present {
			log.Info("word present locally again, skipping mirror")
			return false
		}
		err = o.ext.RemoveWord(ctx, userID, word)
	default:
		log.Warn("unknown sync action")
		return false
	}

	if err != nil {
		log.Warn("failed to sync with vocabulary server", zap.Error(err))
		return false
	}
	log.Debug("synced with vocabulary server")
	return true
}

// ImportFromExtension copies every word of the user's extension list that the
// store does not have yet. Failures are silent and yield 0.
func (o *SyncOrchestrator) ImportFromExtension(ctx context.Context, userID int64) int {
	words, err := o.ext.ListWords(ctx, userID)
	if err != nil {
		o.log.Debug("extension import skipped", zap.Int64("user_id", userID), zap.Error(err))
		return 0
	}

	seen := make(map[string]struct{}, len(words))
	batch := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		batch = append(batch, w)
	}

	n, err := o.local.AddMissing(ctx, userID, batch)
	if err != nil {
		o.log.Debug("extension import failed", zap.Int64("user_id", userID), zap.Error(err))
		return 0
	}
	if n > 0 {
		o.log.Info("imported words from extension", zap.Int64("user_id", userID), zap.Int("count", n))
	}
	return n
}
