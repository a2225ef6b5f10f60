package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter ограничивает число входящих обновлений от одного пользователя.
type Limiter interface {
	Allow(ctx context.Context, userID int64) bool
}

type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, int64) bool {
	return true
}

// MemoryLimiter ограничивает запросы фиксированным окном в пределах одного процесса.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[int64]*bucket
	clock   func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[int64]*bucket),
		clock:   time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, userID int64) bool {
	if l.limit <= 0 || l.window <= 0 || userID == 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	b, ok := l.buckets[userID]
	if !ok || now.After(b.windowEnd) {
		l.buckets[userID] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		l.evict(now)
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// evict удаляет истекшие окна, чтобы карта не росла без ограничений.
func (l *MemoryLimiter) evict(now time.Time) {
	if len(l.buckets) < 1024 {
		return
	}
	for userID, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, userID)
		}
	}
}
