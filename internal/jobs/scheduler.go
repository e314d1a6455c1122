// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный хук NewDay в полночь
// и периодический keep-alive лог.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"levelhub.ru/discord-bot/internal/features/leveling"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron            *cron.Cron
	levelingService *leveling.Service
}

// NewScheduler создаёт планировщик задач в заданном часовом поясе.
// Некорректный пояс не фатален — откатываемся на UTC.
func NewScheduler(levelingService *leveling.Service, timezone string) *Scheduler {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить часовой пояс %q, используем UTC", timezone)
		loc = time.UTC
	}

	return &Scheduler{
		cron:            cron.New(cron.WithLocation(loc)),
		levelingService: levelingService,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ежедневный хук в полночь: сейчас это точка расширения
	// (сезонные события, decay), сам по себе он ничего не сбрасывает
	s.cron.AddFunc("0 0 * * *", func() {
		log.Info("[CRON] Ежедневный хук NewDay")
		s.levelingService.NewDay()
	})

	// Keep-alive каждые 5 минут — видно в логах, что бот жив
	s.cron.AddFunc("*/5 * * * *", func() {
		log.Debug("💚 Бот жив")
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
