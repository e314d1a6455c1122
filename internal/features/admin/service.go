// Package admin — service.go содержит логику аутентификации администраторов
// и административные операции над XP (выдача, сброс, статистика).
//
// Сессии и счётчик неудачных попыток живут в памяти: в отличие от
// игровых данных, они эфемерны и теряются при рестарте намеренно.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/config"
	"levelhub.ru/discord-bot/internal/features/badges"
	"levelhub.ru/discord-bot/internal/features/leveling"
)

const (
	sessionTTL     = 24 * time.Hour
	maxAttempts    = 3
	attemptsWindow = 1 * time.Hour
)

// Service управляет админ-панелью.
type Service struct {
	cfg             *config.Config
	levelingService *leveling.Service
	badgesService   *badges.Service

	mu       sync.Mutex
	sessions map[string]time.Time   // ID администратора → срок действия сессии
	attempts map[string][]time.Time // ID пользователя → времена неудачных попыток
}

// NewService создаёт сервис админ-панели.
func NewService(cfg *config.Config, levelingService *leveling.Service, badgesService *badges.Service) *Service {
	return &Service{
		cfg:             cfg,
		levelingService: levelingService,
		badgesService:   badgesService,
		sessions:        make(map[string]time.Time),
		attempts:        make(map[string][]time.Time),
	}
}

// IsAdmin проверяет, входит ли пользователь в список ADMIN_IDS.
func (s *Service) IsAdmin(userID string) bool {
	for _, id := range s.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Login проверяет пароль администратора (Argon2id).
// Защита от brute-force: 3 неудачные попытки = блокировка на 1 час.
// При успехе создаётся сессия на 24 часа.
func (s *Service) Login(userID, password string) error {
	if !s.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	if s.cfg.AdminPasswordHash == "" {
		return fmt.Errorf("админ-панель отключена: ADMIN_PASSWORD_HASH не задан")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Лимит попыток: считаем только неудачи за последний час
	cutoff := time.Now().Add(-attemptsWindow)
	var recent []time.Time
	for _, t := range s.attempts[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	s.attempts[userID] = recent
	if len(recent) >= maxAttempts {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.cfg.AdminPasswordHash) {
		s.attempts[userID] = append(s.attempts[userID], time.Now())
		log.WithField("user_id", userID).Warn("Неудачная попытка входа в админ-панель")
		return common.ErrWrongPassword
	}

	delete(s.attempts, userID)
	s.sessions[userID] = time.Now().Add(sessionTTL)
	log.WithField("user_id", userID).Info("Администратор вошёл в панель")
	return nil
}

// HasActiveSession проверяет, есть ли у пользователя активная сессия.
func (s *Service) HasActiveSession(userID string) bool {
	return s.CheckSession(userID) == nil
}

// CheckSession возвращает nil при активной сессии, ErrSessionExpired
// для протухшей и ErrNotAdmin, если сессии нет вообще.
func (s *Service) CheckSession(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[userID]
	if !ok {
		return common.ErrNotAdmin
	}
	if time.Now().After(expiry) {
		delete(s.sessions, userID)
		return common.ErrSessionExpired
	}
	return nil
}

// Logout завершает сессию администратора.
func (s *Service) Logout(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// GrantXP выдаёт XP пользователю от имени администратора.
// Возвращает новый уровень получателя.
func (s *Service) GrantXP(ctx context.Context, targetID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	newLevel, err := s.levelingService.AddXP(ctx, targetID, amount)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"target_id": targetID,
		"amount":    amount,
	}).Info("XP выдан администратором")
	return newLevel, nil
}

// ResetXP обнуляет XP пользователя.
func (s *Service) ResetXP(ctx context.Context, targetID string) error {
	return s.levelingService.ResetXP(ctx, targetID)
}

// StoreStats — сводка по хранилищу для команды «статистика».
type StoreStats struct {
	XPUsers       int // Пользователей в XP-документе
	StatsUsers    int // Пользователей в документе статистики
	BadgesAwarded int // Всего выданных бейджей
}

// GetStoreStats возвращает сводку по хранилищу.
func (s *Service) GetStoreStats() StoreStats {
	statsUsers, badgesAwarded := s.badgesService.Counts()
	return StoreStats{
		XPUsers:       s.levelingService.UserCount(),
		StatsUsers:    statsUsers,
		BadgesAwarded: badgesAwarded,
	}
}

// --- Криптографические утилиты ---

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	// Парсим хеш
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	// Извлекаем параметры
	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	// Декодируем соль
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	// Декодируем хеш
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	// Вычисляем хеш введённого пароля
	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравниваем в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
