// Package leveling — repository.go владеет картой «пользователь → UserXP»
// и каналом её персистентности.
//
// Репозиторий — единственный владелец карты: движки читают и мутируют
// только через его методы. Каждая мутация выполняется под мьютексом
// и завершается полной перезаписью документа. discordgo вызывает
// обработчики событий конкурентно, поэтому без мьютекса полные
// перезаписи теряли бы обновления друг друга (last-write-wins).
package leveling

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

// Repository хранит XP-записи всех пользователей.
type Repository struct {
	mu    sync.Mutex
	doc   storage.Document
	users map[string]*UserXP
}

// NewRepository загружает XP-документ в память.
//
// Отсутствующий документ — пустая карта. Существующий, но не парсящийся
// документ — фатальная ошибка (common.ErrCorruptData): продолжать с пустой
// картой значило бы затереть данные при первом же сохранении.
func NewRepository(ctx context.Context, doc storage.Document) (*Repository, error) {
	data, err := doc.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки XP-документа: %w", err)
	}

	users := make(map[string]*UserXP)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &users); err != nil {
			return nil, fmt.Errorf("XP-документ: %w: %w", common.ErrCorruptData, err)
		}
	}

	return &Repository{doc: doc, users: users}, nil
}

// Get возвращает копию записи пользователя.
// Второе значение false = пользователь ещё не встречался боту.
// Чистое чтение: ленивого создания здесь нет.
func (r *Repository) Get(userID string) (UserXP, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return UserXP{}, false
	}
	return *u, true
}

// AddXP добавляет amount XP пользователю (создавая запись с xp=0,
// если её не было), сохраняет документ и возвращает обновлённую копию.
func (r *Repository) AddXP(ctx context.Context, userID string, amount int64) (UserXP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.getOrCreate(userID)
	u.XP += amount

	if err := r.persist(ctx); err != nil {
		return UserXP{}, err
	}
	return *u, nil
}

// ClaimDaily выдаёт ежедневную награду, если кулдаун истёк.
// Проверка права и запись — одна критическая секция: обработчики discordgo
// работают в разных горутинах, и проверка вне мьютекса позволила бы двум
// одновременным /daily получить награду дважды.
// Второе значение false = кулдаун ещё не истёк, ничего не записано.
func (r *Repository) ClaimDaily(ctx context.Context, userID string, amount int64, cooldown time.Duration, at time.Time) (UserXP, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.getOrCreate(userID)
	if u.LastDailyClaim != nil && at.Before(u.LastDailyClaim.Add(cooldown)) {
		return *u, false, nil
	}

	u.XP += amount
	t := at
	u.LastDailyClaim = &t

	if err := r.persist(ctx); err != nil {
		return UserXP{}, false, err
	}
	return *u, true, nil
}

// ResetXP обнуляет XP пользователя (административный сброс).
// Отметка ежедневной награды при этом сохраняется.
func (r *Repository) ResetXP(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return common.ErrUserNotFound
	}
	u.XP = 0

	return r.persist(ctx)
}

// Ranked возвращает всех пользователей, отсортированных по XP по убыванию.
// При равном XP порядок детерминирован: по возрастанию ID пользователя.
func (r *Repository) Ranked() []RankedUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	ranked := make([]RankedUser, 0, len(r.users))
	for id, u := range r.users {
		ranked = append(ranked, RankedUser{UserID: id, XP: u.XP})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].XP != ranked[j].XP {
			return ranked[i].XP > ranked[j].XP
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	return ranked
}

// Count возвращает число известных пользователей (для админ-статистики).
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// getOrCreate — ленивое создание записи. Вызывать только под мьютексом.
func (r *Repository) getOrCreate(userID string) *UserXP {
	u, ok := r.users[userID]
	if !ok {
		u = &UserXP{}
		r.users[userID] = u
	}
	return u
}

// persist перезаписывает документ целиком. Вызывать только под мьютексом.
func (r *Repository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.users)
	if err != nil {
		return fmt.Errorf("ошибка сериализации XP-документа: %w", err)
	}
	return r.doc.Save(ctx, data)
}
