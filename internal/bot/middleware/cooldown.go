package middleware

import (
	"sync"
	"time"
)

// Cooldown отсекает слишком частые начисления XP одному пользователю.
// В отличие от RateLimiter, здесь не окно со счётчиком, а простой кулдаун:
// одно разрешение, затем тишина до истечения интервала. Флуд сообщениями
// не должен конвертироваться в XP один-к-одному.
type Cooldown struct {
	mu       sync.Mutex
	until    map[string]time.Time
	interval time.Duration

	// Источник времени. Подменяется в тестах.
	now func() time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		until:    make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// Allow возвращает true и запускает кулдаун, если пользователь
// сейчас вне кулдауна. Иначе false без побочных эффектов.
func (c *Cooldown) Allow(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if until, ok := c.until[userID]; ok && now.Before(until) {
		return false
	}
	c.until[userID] = now.Add(c.interval)
	return true
}
