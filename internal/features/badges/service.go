// Package badges — service.go содержит бизнес-логику бейджей:
// инкремент счётчиков и оценка условий после каждой мутации.
package badges

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service управляет системой бейджей.
type Service struct {
	repo    *Repository
	catalog []Definition
	byID    map[string]Definition

	// Источник времени. Подменяется в тестах (бейдж "veteran").
	now func() time.Time
}

// NewService создаёт сервис бейджей с заданным каталогом.
func NewService(repo *Repository, catalog []Definition) *Service {
	byID := make(map[string]Definition, len(catalog))
	for _, def := range catalog {
		byID[def.ID] = def
	}
	return &Service{
		repo:    repo,
		catalog: catalog,
		byID:    byID,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// IncrementMessages учитывает отправленное сообщение
// и возвращает ID только что заработанных бейджей.
func (s *Service) IncrementMessages(ctx context.Context, userID string) ([]string, error) {
	st, err := s.repo.IncrementMessages(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", userID).Debug("💬 Сообщение учтено")
	return s.evaluate(ctx, userID, st)
}

// IncrementReactionGiven учитывает поставленную реакцию.
func (s *Service) IncrementReactionGiven(ctx context.Context, userID string) ([]string, error) {
	st, err := s.repo.IncrementReactionsGiven(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", userID).Debug("👍 Поставленная реакция учтена")
	return s.evaluate(ctx, userID, st)
}

// IncrementReactionReceived учитывает полученную реакцию.
func (s *Service) IncrementReactionReceived(ctx context.Context, userID string) ([]string, error) {
	st, err := s.repo.IncrementReactionsReceived(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	log.WithField("user_id", userID).Debug("❤️ Полученная реакция учтена")
	return s.evaluate(ctx, userID, st)
}

// GetUserBadges возвращает заработанные бейджи пользователя,
// отсортированные по возрастанию ID. Выданный бейдж не отзывается никогда.
func (s *Service) GetUserBadges(userID string) []string {
	return s.repo.Awards(userID)
}

// Stats возвращает копию счётчиков активности пользователя.
func (s *Service) Stats(userID string) (UserStats, bool) {
	return s.repo.Stats(userID)
}

// DaysKnown возвращает, сколько полных дней бот наблюдает пользователя.
// false — пользователь неизвестен или joinDate не парсится.
func (s *Service) DaysKnown(userID string) (int64, bool) {
	st, ok := s.repo.Stats(userID)
	if !ok {
		return 0, false
	}
	join, err := st.JoinTime()
	if err != nil {
		return 0, false
	}
	return int64(s.now().Sub(join).Hours() / 24), true
}

// Definition возвращает описание бейджа по ID (для отображения).
func (s *Service) Definition(id string) (Definition, bool) {
	def, ok := s.byID[id]
	return def, ok
}

// Catalog возвращает копию каталога бейджей.
func (s *Service) Catalog() []Definition {
	out := make([]Definition, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Counts возвращает (пользователей со статистикой, всего выданных бейджей).
func (s *Service) Counts() (int, int) {
	return s.repo.Counts()
}

// evaluate проверяет все ещё не заработанные бейджи против текущих
// счётчиков. Новые бейджи выдаются пачкой (одна запись документа)
// и возвращаются отсортированными по возрастанию ID.
//
// Ошибка оценки ОДНОГО бейджа (например, битый joinDate) логируется
// и этот бейдж пропускается; остальные всё равно проверяются.
// Один кривой пользовательский рекорд не должен останавливать обработку.
func (s *Service) evaluate(ctx context.Context, userID string, st UserStats) ([]string, error) {
	earned := make(map[string]bool)
	for _, id := range s.repo.Awards(userID) {
		earned[id] = true
	}

	var newly []string
	for _, def := range s.catalog {
		if earned[def.ID] {
			continue
		}
		met, err := s.conditionMet(def.Condition, &st)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"badge":   def.ID,
			}).Warn("Условие бейджа не удалось оценить, пропускаем")
			continue
		}
		if met {
			newly = append(newly, def.ID)
		}
	}

	if len(newly) == 0 {
		return nil, nil
	}
	sort.Strings(newly)

	if err := s.repo.AddAwards(ctx, userID, newly); err != nil {
		return nil, err
	}
	for _, id := range newly {
		log.WithFields(log.Fields{
			"user_id": userID,
			"badge":   id,
		}).Info("🎖 Бейдж выдан")
	}
	return newly, nil
}

// conditionMet проверяет одно условие против счётчиков.
// switch исчерпывающий: неизвестный тип условия — ошибка оценки,
// а не молчаливый false.
func (s *Service) conditionMet(cond Condition, st *UserStats) (bool, error) {
	switch cond.Kind {
	case ConditionMessages:
		return st.Messages >= cond.Threshold, nil
	case ConditionReactionsGiven:
		return st.ReactionsGiven >= cond.Threshold, nil
	case ConditionReactionsReceived:
		return st.ReactionsReceived >= cond.Threshold, nil
	case ConditionDaysMember:
		join, err := st.JoinTime()
		if err != nil {
			return false, err
		}
		days := int64(s.now().Sub(join).Hours() / 24)
		return days >= cond.Threshold, nil
	default:
		return false, fmt.Errorf("неизвестный тип условия %q", cond.Kind)
	}
}
