package prefs

import (
	"context"
	"sync"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

// SessionWatcher blanks session-scoped preference fields when the
// authentication signal drops. Edge-triggered: only the authenticated to
// unauthenticated transition fires; repeated unauthenticated observations
// while logged out do nothing.
type SessionWatcher struct {
	store  *Store
	logger logger.Logger

	mu   sync.Mutex
	prev bool
}

// NewSessionWatcher starts from the unauthenticated state, so a leading
// false observation never clears anything.
func NewSessionWatcher(store *Store, log logger.Logger) *SessionWatcher {
	return &SessionWatcher{store: store, logger: log}
}

// Observe feeds one authentication sample. On a true to false edge the
// lastViewed record is blanked exactly once.
func (w *SessionWatcher) Observe(ctx context.Context, authenticated bool) {
	w.mu.Lock()
	fell := w.prev && !authenticated
	w.prev = authenticated
	w.mu.Unlock()

	if !fell {
		return
	}

	w.logger.Info().Msg("Session ended, clearing last-viewed stamps")
	w.store.Save(ctx, &models.PreferencesPatch{LastViewed: &models.LastViewed{}})
}

// Run drains an observable channel until it closes or ctx is canceled.
func (w *SessionWatcher) Run(ctx context.Context, updates <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}

			w.Observe(ctx, state)
		}
	}
}
