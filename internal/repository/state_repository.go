package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/schedule-bot/internal/models"
)

// StateKey identifies one user's wizard inside one chat. Several users may
// run wizards in the same group chat at once.
type StateKey struct {
	ChatID int64
	UserID int64
}

// StateRepository keeps wizard state per chat member in process memory.
// States untouched for longer than ttl are treated as abandoned.
type StateRepository struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.RWMutex
	states map[StateKey]models.ChatState
}

// NewStateRepository constructs an in-memory state store.
func NewStateRepository(ttl time.Duration) *StateRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &StateRepository{ttl: ttl, now: time.Now, states: make(map[StateKey]models.ChatState)}
}

// Get returns the live state for key.
func (r *StateRepository) Get(key StateKey) (models.ChatState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[key]
	if !ok || r.now().Sub(state.UpdatedAt) >= r.ttl {
		return models.ChatState{}, false
	}
	return state, true
}

// InStep reports whether key is currently at a step starting with prefix.
func (r *StateRepository) InStep(key StateKey, prefix string) bool {
	state, ok := r.Get(key)
	return ok && strings.HasPrefix(state.Step, prefix)
}

// Set stores state for key.
func (r *StateRepository) Set(key StateKey, state models.ChatState) {
	state.UpdatedAt = r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[key] = state
}

// Clear removes the state of key.
func (r *StateRepository) Clear(key StateKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, key)
}
