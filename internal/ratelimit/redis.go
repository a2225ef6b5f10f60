package ratelimit

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "jobbot:inbound"
	redisTimeout  = 250 * time.Millisecond
)

// windowScript увеличивает счетчик окна и возвращает новое значение.
// Ключу без TTL срок жизни выставляется заново.
var windowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter ведет общее окно для всех реплик бота. Если Redis недоступен,
// обновление пропускается, а сбой пишется в лог.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string, logger *slog.Logger) *RedisLimiter {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: prefix,
		logger: logger,
	}
}

func (l *RedisLimiter) key(userID int64) string {
	return l.prefix + ":" + strconv.FormatInt(userID, 10)
}

func (l *RedisLimiter) Allow(ctx context.Context, userID int64) bool {
	if l.client == nil || l.limit <= 0 || l.window <= 0 || userID == 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	windowMs := max(l.window.Milliseconds(), 1)
	count, err := windowScript.Run(ctx, l.client, []string{l.key(userID)}, windowMs).Int64()
	if err != nil {
		l.logger.Warn("rate limit check failed", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return true
	}
	return count <= l.limit
}

// New выбирает реализацию лимитера: без лимита пропускает все, без Redis
// считает в памяти процесса.
func New(client *redis.Client, limit int, window time.Duration, prefix string, logger *slog.Logger) Limiter {
	switch {
	case limit <= 0 || window <= 0:
		return NoopLimiter{}
	case client == nil:
		return NewMemoryLimiter(limit, window)
	default:
		return NewRedisLimiter(client, limit, window, prefix, logger)
	}
}
