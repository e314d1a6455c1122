// Package leveling — service.go содержит бизнес-логику XP-системы:
// начисление XP, производный уровень, ежедневная награда с кулдауном
// и лидерборд.
package leveling

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/config"
)

// Service управляет XP-системой.
type Service struct {
	repo *Repository    // Репозиторий XP-записей
	cfg  *config.Config // Конфигурация (размер и кулдаун ежедневной награды)

	// Источник времени. Подменяется в тестах для проверки кулдауна.
	now func() time.Time
}

// NewService создаёт новый сервис XP.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// AddXP начисляет amount XP пользователю и возвращает его новый уровень.
// Запись создаётся лениво с xp=0, если пользователь ещё не встречался.
// Отрицательный amount — ошибка вызывающего (common.ErrInvalidAmount);
// ноль допустим и уровень не меняет.
func (s *Service) AddXP(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, common.ErrInvalidAmount
	}

	u, err := s.repo.AddXP(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"xp":      u.XP,
	}).Debug("✨ XP начислен")

	return CalculateLevel(u.XP), nil
}

// GetLevel возвращает текущий уровень пользователя. Чистое чтение:
// неизвестный пользователь — уровень 0, запись не создаётся.
func (s *Service) GetLevel(userID string) int64 {
	u, _ := s.repo.Get(userID)
	return CalculateLevel(u.XP)
}

// GetSnapshot возвращает срез (xp, уровень, XP до следующего уровня).
// Чтение без мутаций: два вызова подряд дают одинаковый результат.
func (s *Service) GetSnapshot(userID string) Snapshot {
	u, _ := s.repo.Get(userID)
	level := CalculateLevel(u.XP)
	return Snapshot{
		XP:          u.XP,
		Level:       level,
		NextLevelXP: XPForNextLevel(level),
	}
}

// CanClaimDaily проверяет, доступна ли ежедневная награда.
// Награда доступна, если её ещё ни разу не забирали или с последнего
// получения прошло XP_DAILY_COOLDOWN (по умолчанию 23 часа).
// Когда недоступна — вторым значением возвращается оставшееся время.
func (s *Service) CanClaimDaily(userID string) (bool, time.Duration) {
	u, ok := s.repo.Get(userID)
	if !ok || u.LastDailyClaim == nil {
		return true, 0
	}

	readyAt := u.LastDailyClaim.Add(s.cfg.XPDailyCooldown)
	now := s.now()
	if !now.Before(readyAt) {
		return true, 0
	}
	return false, readyAt.Sub(now)
}

// ClaimDaily выдаёт ежедневную награду.
//
// Возвращает (выдано XP, новый уровень). Если кулдаун ещё не истёк —
// (0, текущий уровень) без ошибки: невыполненный кулдаун — это нормальный
// отрицательный результат, а не исключение. Право на награду проверяет
// репозиторий под своим мьютексом, одной критической секцией с записью;
// предварительный CanClaimDaily в обработчике — только для текста
// «сколько осталось ждать».
func (s *Service) ClaimDaily(ctx context.Context, userID string) (int64, int64, error) {
	amount := s.cfg.XPDailyAmount
	u, granted, err := s.repo.ClaimDaily(ctx, userID, amount, s.cfg.XPDailyCooldown, s.now())
	if err != nil {
		return 0, 0, err
	}
	if !granted {
		return 0, CalculateLevel(u.XP), nil
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"granted": amount,
	}).Info("🎁 Ежедневная награда выдана")

	return amount, CalculateLevel(u.XP), nil
}

// GetTopUsers возвращает limit лучших пользователей по XP (по убыванию).
// При равном XP порядок стабильный: по возрастанию ID.
func (s *Service) GetTopUsers(limit int) []RankedUser {
	ranked := s.repo.Ranked()
	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// ResetXP обнуляет XP пользователя (административный сброс).
func (s *Service) ResetXP(ctx context.Context, userID string) error {
	if err := s.repo.ResetXP(ctx, userID); err != nil {
		return err
	}
	log.WithField("user_id", userID).Warn("XP пользователя сброшен администратором")
	return nil
}

// UserCount возвращает число отслеживаемых пользователей.
func (s *Service) UserCount() int {
	return s.repo.Count()
}

// NewDay — точка расширения для будущих ежедневных событий
// (сезонные сбросы, decay). Сейчас только логирует. Вызывается кроном.
func (s *Service) NewDay() {
	log.Info("🔥 Новый день")
}
