package manager

import (
	"log/slog"
	"sync"
)

// StateManager owns the high score and session history. Reads are served from
// memory; writes are handed to a background goroutine so callers never wait
// on the store.
type StateManager struct {
	store       Store
	historyPath string
	logger      *slog.Logger

	mu        sync.Mutex
	highScore int
	history   History
	pending   pendingWrites
	closed    bool

	signal chan struct{}
	wg     sync.WaitGroup
}

type pendingWrites struct {
	highScore *int
	history   *History
}

// NewStateManager starts the writer goroutine. An empty historyPath keeps the
// history in memory only. Call Close to flush pending writes.
func NewStateManager(store Store, historyPath string, logger *slog.Logger) *StateManager {
	if logger == nil {
		logger = slog.Default()
	}
	sm := &StateManager{
		store:       store,
		historyPath: historyPath,
		logger:      logger,
		signal:      make(chan struct{}, 1),
	}

	if historyPath != "" {
		h, err := LoadHistory(historyPath)
		if err != nil {
			logger.Warn("could not load score history", "path", historyPath, "error", err)
		}
		sm.history = h
	}

	sm.wg.Add(1)
	go sm.writeLoop()
	return sm
}

// LoadHighScore reads the stored high score. A failed load counts as no prior
// record. Records set by this process that are still being written win over
// an older stored value.
func (sm *StateManager) LoadHighScore() int {
	stored, err := sm.store.Load(HighScoreKey)
	if err != nil {
		sm.logger.Warn("could not load high score", "error", err)
		stored = 0
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if stored > sm.highScore {
		sm.highScore = stored
	}
	return sm.highScore
}

// HighScore returns the best score known to this process.
func (sm *StateManager) HighScore() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.highScore
}

// RecordScore raises the high score to score when it is a new record and
// queues the write. It reports whether a new record was set.
func (sm *StateManager) RecordScore(score int) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if score <= sm.highScore {
		return false
	}
	sm.highScore = score
	v := score
	sm.pending.highScore = &v
	sm.kickLocked()
	return true
}

// AddSession appends a finished session to the history and queues the write.
func (sm *StateManager) AddSession(rec SessionRecord) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.history.Add(rec)
	if sm.historyPath != "" {
		h := sm.history.clone()
		sm.pending.history = &h
		sm.kickLocked()
	}
}

// Summary aggregates the recorded sessions.
func (sm *StateManager) Summary() Summary {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.history.Summary()
}

// Close stops the writer after flushing everything still pending.
func (sm *StateManager) Close() {
	sm.mu.Lock()
	if sm.closed {
		sm.mu.Unlock()
		return
	}
	sm.closed = true
	close(sm.signal)
	sm.mu.Unlock()

	sm.wg.Wait()
	sm.flush()
}

// kickLocked wakes the writer without blocking. sm.mu must be held.
func (sm *StateManager) kickLocked() {
	if sm.closed {
		return
	}
	select {
	case sm.signal <- struct{}{}:
	default:
		// Writer already has a wake-up queued; it will see the latest values.
	}
}

func (sm *StateManager) writeLoop() {
	defer sm.wg.Done()
	for range sm.signal {
		sm.flush()
	}
}

// flush writes the latest pending values. Failed writes are logged and dropped.
func (sm *StateManager) flush() {
	sm.mu.Lock()
	p := sm.pending
	sm.pending = pendingWrites{}
	sm.mu.Unlock()

	if p.highScore != nil {
		if err := sm.store.Save(HighScoreKey, *p.highScore); err != nil {
			sm.logger.Warn("could not save high score", "score", *p.highScore, "error", err)
		}
	}
	if p.history != nil {
		if err := SaveHistory(sm.historyPath, *p.history); err != nil {
			sm.logger.Warn("could not save score history", "path", sm.historyPath, "error", err)
		}
	}
}
