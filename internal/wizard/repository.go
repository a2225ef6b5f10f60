package wizard

import (
	"context"
	"sync"
)

// StateRepository хранит состояние диалога по ID пользователя. Get возвращает
// состояние idle, если записи нет.
type StateRepository interface {
	Get(ctx context.Context, userID int64) (State, error)
	Save(ctx context.Context, userID int64, state State) error
	Clear(ctx context.Context, userID int64) error
}

// MemoryStateRepository хранит состояния в памяти; после перезапуска они
// теряются.
type MemoryStateRepository struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{states: make(map[int64]State)}
}

func (r *MemoryStateRepository) Get(_ context.Context, userID int64) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[userID]
	if !ok {
		return idleState(), nil
	}
	return state, nil
}

func (r *MemoryStateRepository) Save(_ context.Context, userID int64, state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !state.Active() {
		delete(r.states, userID)
		return nil
	}
	r.states[userID] = state
	return nil
}

func (r *MemoryStateRepository) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, userID)
	return nil
}

// Len возвращает число незавершенных диалогов.
func (r *MemoryStateRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
