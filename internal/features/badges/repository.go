// Package badges — repository.go владеет двумя документами:
// счётчики активности (stats) и выданные бейджи (awards).
//
// Документы независимы и связаны только общим ключом (ID пользователя);
// ссылочная целостность между ними и XP-документом не гарантируется.
// Падение между двумя записями может оставить их рассинхронизированными —
// это принятое упрощение, обе карты монотонны и расхождение безопасно.
package badges

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"levelhub.ru/discord-bot/internal/common"
	"levelhub.ru/discord-bot/internal/storage"
)

// Repository хранит счётчики и награды всех пользователей.
type Repository struct {
	mu        sync.Mutex
	statsDoc  storage.Document
	awardsDoc storage.Document
	stats     map[string]*UserStats
	awards    map[string][]string // значения всегда отсортированы по возрастанию
}

// NewRepository загружает оба документа в память.
// Как и в XP-репозитории: отсутствующий документ — пустая карта,
// не парсящийся — фатальный common.ErrCorruptData.
func NewRepository(ctx context.Context, statsDoc, awardsDoc storage.Document) (*Repository, error) {
	stats := make(map[string]*UserStats)
	if data, err := statsDoc.Load(ctx); err != nil {
		return nil, fmt.Errorf("ошибка загрузки документа статистики: %w", err)
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &stats); err != nil {
			return nil, fmt.Errorf("документ статистики: %w: %w", common.ErrCorruptData, err)
		}
	}

	awards := make(map[string][]string)
	if data, err := awardsDoc.Load(ctx); err != nil {
		return nil, fmt.Errorf("ошибка загрузки документа наград: %w", err)
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &awards); err != nil {
			return nil, fmt.Errorf("документ наград: %w: %w", common.ErrCorruptData, err)
		}
	}
	// Порядок в хранилище — отсортированная последовательность
	for _, ids := range awards {
		sort.Strings(ids)
	}

	return &Repository{
		statsDoc:  statsDoc,
		awardsDoc: awardsDoc,
		stats:     stats,
		awards:    awards,
	}, nil
}

// IncrementMessages увеличивает счётчик сообщений на 1 и возвращает
// обновлённую копию статистики.
func (r *Repository) IncrementMessages(ctx context.Context, userID string, now time.Time) (UserStats, error) {
	return r.increment(ctx, userID, now, func(s *UserStats) { s.Messages++ })
}

// IncrementReactionsGiven увеличивает счётчик поставленных реакций на 1.
func (r *Repository) IncrementReactionsGiven(ctx context.Context, userID string, now time.Time) (UserStats, error) {
	return r.increment(ctx, userID, now, func(s *UserStats) { s.ReactionsGiven++ })
}

// IncrementReactionsReceived увеличивает счётчик полученных реакций на 1.
func (r *Repository) IncrementReactionsReceived(ctx context.Context, userID string, now time.Time) (UserStats, error) {
	return r.increment(ctx, userID, now, func(s *UserStats) { s.ReactionsReceived++ })
}

// increment — общий путь мутации: ленивое создание записи
// (все счётчики по нулям, joinDate = сейчас), инкремент ровно одного
// счётчика, полная перезапись документа статистики.
func (r *Repository) increment(ctx context.Context, userID string, now time.Time, apply func(*UserStats)) (UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[userID]
	if !ok {
		s = &UserStats{JoinDate: now.UTC().Format(time.RFC3339)}
		r.stats[userID] = s
	}
	apply(s)

	if err := r.persistStats(ctx); err != nil {
		return UserStats{}, err
	}
	return *s, nil
}

// Stats возвращает копию статистики пользователя.
// Второе значение false = пользователь ещё не встречался.
func (r *Repository) Stats(userID string) (UserStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[userID]
	if !ok {
		return UserStats{}, false
	}
	return *s, true
}

// Awards возвращает копию списка наград пользователя
// (отсортирован по возрастанию ID бейджа).
func (r *Repository) Awards(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.awards[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// AddAwards добавляет бейджи в набор пользователя одной записью документа.
// Набор монотонный: уже имеющиеся ID игнорируются, удаления не бывает.
func (r *Repository) AddAwards(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	have := make(map[string]bool, len(r.awards[userID]))
	for _, id := range r.awards[userID] {
		have[id] = true
	}

	added := false
	for _, id := range ids {
		if !have[id] {
			r.awards[userID] = append(r.awards[userID], id)
			have[id] = true
			added = true
		}
	}
	if !added {
		return nil
	}
	sort.Strings(r.awards[userID])

	return r.persistAwards(ctx)
}

// Counts возвращает (пользователей со статистикой, всего выданных бейджей).
// Используется админ-статистикой.
func (r *Repository) Counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, ids := range r.awards {
		total += len(ids)
	}
	return len(r.stats), total
}

// persistStats перезаписывает документ статистики. Только под мьютексом.
func (r *Repository) persistStats(ctx context.Context) error {
	data, err := json.Marshal(r.stats)
	if err != nil {
		return fmt.Errorf("ошибка сериализации статистики: %w", err)
	}
	return r.statsDoc.Save(ctx, data)
}

// persistAwards перезаписывает документ наград. Только под мьютексом.
func (r *Repository) persistAwards(ctx context.Context) error {
	data, err := json.Marshal(r.awards)
	if err != nil {
		return fmt.Errorf("ошибка сериализации наград: %w", err)
	}
	return r.awardsDoc.Save(ctx, data)
}
