package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobbot/internal/board"
	"jobbot/internal/common"
)

// Store хранит пользователей и вакансии в памяти процесса.
type Store struct {
	mu        sync.RWMutex
	users     map[int64]board.User
	vacancies []board.Vacancy
	nextID    int64
	clock     func() time.Time
}

// NewStore создает пустое хранилище в памяти.
func NewStore() *Store {
	return &Store{
		users: make(map[int64]board.User),
		clock: time.Now,
	}
}

func (s *Store) SaveUser(_ context.Context, user board.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.CreatedAt = s.clock().UTC()
	s.users[user.ID] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (board.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return board.User{}, common.NewError(common.CodeNotFound, "user not found", board.ErrUserNotFound)
	}
	return user, nil
}

func (s *Store) CreateVacancy(_ context.Context, v board.Vacancy) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	v.ID = s.nextID
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.clock()
	}
	v.CreatedAt = v.CreatedAt.UTC()
	s.vacancies = append(s.vacancies, v)
	return v.ID, nil
}

func (s *Store) ListVacancies(_ context.Context, limit, offset int) ([]board.Vacancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || offset < 0 || offset >= len(s.vacancies) {
		return nil, nil
	}
	sorted := make([]board.Vacancy, len(s.vacancies))
	copy(sorted, s.vacancies)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	end := len(sorted)
	if limit < end-offset {
		end = offset + limit
	}
	return sorted[offset:end], nil
}

func (s *Store) CountVacancies(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vacancies), nil
}
